package screening

import (
	"context"
	"strings"

	"resume-screener/internal/llm"
	"resume-screener/internal/shared/telemetry"
)

// Readiness reports whether PDF extraction is available.
type Readiness interface {
	Ready() bool
}

// Service holds the screening workflow on top of the session store.
type Service struct {
	Store     *MemoryStore
	Analyzer  *Analyzer
	LLM       llm.Client
	Readiness Readiness
}

// Analyze runs the analyzer over the session's résumés and stores the sorted
// result set, replacing any previous one.
func (s *Service) Analyze(ctx context.Context, sessionID string) ([]AnalysisResult, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Readiness != nil && !s.Readiness.Ready() {
		return nil, ErrExtractorUnavailable
	}
	jd, files, err := sess.beginRun()
	if err != nil {
		return nil, err
	}
	// A started batch runs to completion even if the caller goes away.
	results := s.Analyzer.Run(context.WithoutCancel(ctx), sess.ID, jd, files)
	sess.finishRun(results)
	return sess.Results(), nil
}

// Enhance asks the model to rewrite the job description. On success the
// session's job description is replaced; on failure it is left unchanged.
func (s *Service) Enhance(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	jd := sess.JobDescription()
	if strings.TrimSpace(jd) == "" {
		return "", ErrMissingJob
	}
	enhanced, err := s.LLM.Generate(ctx, llm.EnhancePrompt(jd), false)
	if err != nil {
		telemetry.Warn("enhance.failed", map[string]any{"session_id": sessionID, "error": err})
		return "", &UpstreamError{Err: err}
	}
	sess.SetJobDescription(enhanced)
	return enhanced, nil
}

// DraftEmail generates an outreach email for the result at index in the
// current display order. Model failures are reported inside the draft.
func (s *Service) DraftEmail(ctx context.Context, sessionID string, index int) (EmailDraft, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return EmailDraft{}, err
	}
	results := sess.Results()
	if index < 0 || index >= len(results) {
		return EmailDraft{}, ErrNotFound
	}
	target := results[index]
	if !target.CanDraftEmail() {
		return EmailDraft{}, ErrNotEligible
	}

	prompt := llm.OutreachEmailPrompt(target.Analysis.CandidateName, topJobTitle(results), target.Analysis.Strengths)
	content, err := s.LLM.Generate(ctx, prompt, false)
	if err != nil {
		telemetry.Warn("email.failed", map[string]any{"session_id": sessionID, "file_name": target.FileName, "error": err})
		return EmailDraft{
			FileName: target.FileName,
			Content:  "Failed to generate email: " + err.Error(),
			Failed:   true,
		}, nil
	}
	return EmailDraft{FileName: target.FileName, Content: content}, nil
}

// topJobTitle returns the job title of the top-ranked result.
func topJobTitle(results []AnalysisResult) string {
	if len(results) == 0 || results[0].Failed() {
		return llm.DefaultJobTitle
	}
	if title := strings.TrimSpace(results[0].Analysis.JobTitle); title != "" {
		return title
	}
	return llm.DefaultJobTitle
}

// UpstreamError wraps a failure of the model call behind an action.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
