package screening

import "errors"

var (
	// ErrNotFound is returned for unknown sessions, résumés or result indexes.
	ErrNotFound = errors.New("not found")
	// ErrRunInProgress reports a second analysis started while one is running.
	ErrRunInProgress = errors.New("analysis already running for this session")
	// ErrMissingInput is returned when analysis lacks a job description or résumés.
	ErrMissingInput = errors.New("job description and at least one resume are required")
	// ErrMissingJob is returned when enhancing a blank job description.
	ErrMissingJob = errors.New("job description is required")
	// ErrExtractorUnavailable reports that the PDF library failed its startup self-test.
	ErrExtractorUnavailable = errors.New("pdf extractor unavailable")
	// ErrNotEligible is returned when drafting an email for a result scoring below 70.
	ErrNotEligible = errors.New("candidate is not eligible for an outreach email")
	// ErrMalformedAnalysis wraps model output that is not a well-typed analysis object.
	ErrMalformedAnalysis = errors.New("malformed analysis")
	// ErrStoreFull is returned when the session cap is reached.
	ErrStoreFull = errors.New("session limit reached")
)

// User-facing messages.
const (
	MsgMissingInput         = "Please provide a job description and at least one resume."
	MsgMissingJob           = "Please enter a job description first."
	MsgExtractorUnavailable = "Failed to load the PDF processing library. Please refresh the page."
	MsgRunInProgress        = "An analysis is already running for this session."
	MsgNotEligible          = "Outreach emails are only available for candidates scoring 70 or higher."
	MsgStoreFull            = "Too many active sessions. Please retry later."
)

// Error codes used in the response envelope.
const (
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeUnavailable = "PDF_LIBRARY_UNAVAILABLE"
	ErrorCodeUpstream    = "UPSTREAM_ERROR"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeCapacity    = "SESSION_LIMIT"
)
