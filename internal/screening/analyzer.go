package screening

import (
	"context"
	"fmt"
	"sort"
	"time"

	"resume-screener/internal/llm"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/telemetry"
)

// TextExtractor turns a PDF into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Analyzer scores résumés against a job description, one file at a time.
type Analyzer struct {
	Extractor TextExtractor
	LLM       llm.Client
}

// Run analyzes files in order and returns exactly one result per file, sorted
// by score descending. A failing file yields an error-tagged entry and never
// stops the run.
func (a *Analyzer) Run(ctx context.Context, sessionID, jobDescription string, files []ResumeFile) []AnalysisResult {
	start := time.Now()
	results := make([]AnalysisResult, 0, len(files))
	failed := 0
	for i, f := range files {
		res := a.analyzeOne(ctx, jobDescription, f)
		metrics.IncAnalysisFile(res.Failed())
		fields := map[string]any{
			"session_id": sessionID,
			"file_name":  f.Name,
			"position":   i + 1,
			"total":      len(files),
		}
		if res.Failed() {
			failed++
			fields["error"] = res.Error
			telemetry.Warn("analysis.file_failed", fields)
		} else {
			telemetry.Info("analysis.file_done", fields)
		}
		results = append(results, res)
	}

	SortByScore(results)

	elapsed := metrics.SinceMillis(start)
	metrics.ObserveAnalysisRunMs(elapsed)
	telemetry.Info("analysis.run_complete", map[string]any{
		"session_id":  sessionID,
		"file_count":  len(files),
		"failed":      failed,
		"duration_ms": elapsed,
	})
	return results
}

func (a *Analyzer) analyzeOne(ctx context.Context, jobDescription string, f ResumeFile) (res AnalysisResult) {
	res.FileName = f.Name
	defer func() {
		if rec := recover(); rec != nil {
			res.Analysis = nil
			res.Error = failedToAnalyze(fmt.Errorf("%v", rec))
		}
	}()

	text, err := a.Extractor.ExtractText(ctx, f.Data)
	if err != nil {
		res.Error = failedToAnalyze(err)
		return res
	}
	reply, err := a.LLM.Generate(ctx, llm.AnalysisPrompt(jobDescription, text), true)
	if err != nil {
		res.Error = failedToAnalyze(err)
		return res
	}
	analysis, err := DecodeAnalysis(reply)
	if err != nil {
		res.Error = failedToAnalyze(err)
		return res
	}
	res.Analysis = analysis
	return res
}

func failedToAnalyze(err error) string {
	return "Failed to analyze: " + err.Error()
}

// SortByScore orders results by score descending. Ties and unscored entries
// keep their input order.
func SortByScore(results []AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SortScore() > results[j].SortScore()
	})
}
