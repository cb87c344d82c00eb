package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"resume-screener/internal/llm"
)

// EmailScoreThreshold is the minimum suitability score for which an outreach
// email may be drafted.
const EmailScoreThreshold = 70

// ResumeFile is an uploaded résumé held in memory for the session lifetime.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Analysis is the structured verdict returned by the model for one résumé.
// SuitabilityScore is kept exactly as returned.
type Analysis struct {
	JobTitle           string          `json:"jobTitle"`
	CandidateName      string          `json:"candidateName"`
	SuitabilityScore   json.RawMessage `json:"suitabilityScore,omitempty"`
	MatchSummary       string          `json:"matchSummary"`
	Strengths          []string        `json:"strengths"`
	PotentialGaps      []string        `json:"potentialGaps"`
	SuggestedQuestions []string        `json:"suggestedQuestions"`
}

// Score parses SuitabilityScore as a number or numeric string.
func (a *Analysis) Score() (float64, bool) {
	if a == nil {
		return 0, false
	}
	raw := bytes.TrimSpace(a.SuitabilityScore)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// AnalysisResult pairs a file with either its analysis or an error message.
type AnalysisResult struct {
	FileName string    `json:"fileName"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Failed reports whether the entry is error-tagged.
func (r AnalysisResult) Failed() bool {
	return r.Error != "" || r.Analysis == nil
}

// SortScore is the score used for ordering; missing or unparseable scores count as 0.
func (r AnalysisResult) SortScore() float64 {
	if r.Failed() {
		return 0
	}
	score, _ := r.Analysis.Score()
	return score
}

// CanDraftEmail reports whether the entry succeeded with a score of at least 70.
func (r AnalysisResult) CanDraftEmail() bool {
	if r.Failed() {
		return false
	}
	score, ok := r.Analysis.Score()
	return ok && score >= EmailScoreThreshold
}

// EmailDraft is the outcome of an outreach email request. It is never stored.
type EmailDraft struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
	Failed   bool   `json:"failed"`
}

// DecodeAnalysis parses model output into an Analysis. The text must be a
// JSON object, optionally wrapped in a Markdown code fence.
func DecodeAnalysis(text string) (*Analysis, error) {
	clean := llm.StripCodeFence(text)
	if !strings.HasPrefix(clean, "{") {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedAnalysis)
	}
	var a Analysis
	if err := json.Unmarshal([]byte(clean), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	return &a, nil
}
