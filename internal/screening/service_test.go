package screening

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestService(llmFake *fakeLLM, ready bool) *Service {
	return &Service{
		Store:     NewMemoryStore(),
		Analyzer:  &Analyzer{Extractor: fakeExtractor{}, LLM: llmFake},
		LLM:       llmFake,
		Readiness: staticReadiness(ready),
	}
}

func seededSession(t *testing.T, svc *Service, jd string, files ...ResumeFile) *Session {
	t.Helper()
	sess, err := svc.Store.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess.SetJobDescription(jd)
	sess.AddResumes(files)
	return sess
}

func TestServiceAnalyzeStoresSortedResults(t *testing.T) {
	llmFake := &fakeLLM{reply: replyByResume(map[string]string{
		"a": `{"jobTitle":"SRE","candidateName":"A","suitabilityScore":42}`,
		"b": `{"jobTitle":"SRE","candidateName":"B","suitabilityScore":90}`,
		"c": `{"jobTitle":"SRE","candidateName":"C","suitabilityScore":70}`,
		"d": `{"jobTitle":"SRE","candidateName":"D"}`,
	})}
	svc := newTestService(llmFake, true)
	sess := seededSession(t, svc, "SRE role", pdfFile("a.pdf", "a"), pdfFile("b.pdf", "b"), pdfFile("c.pdf", "c"), pdfFile("d.pdf", "d"))

	results, err := svc.Analyze(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var names []string
	for _, r := range results {
		names = append(names, r.Analysis.CandidateName)
	}
	if strings.Join(names, ",") != "B,C,A,D" {
		t.Fatalf("unexpected order %v", names)
	}
	if got := sess.Results(); len(got) != 4 || got[0].FileName != "b.pdf" {
		t.Fatalf("results not stored on session: %+v", got)
	}
	if sess.View().Analyzing {
		t.Fatal("analyzing flag must be cleared after the run")
	}
}

func TestServiceAnalyzeReplacesPreviousResults(t *testing.T) {
	llmFake := &fakeLLM{reply: replyByResume(map[string]string{
		"a": `{"candidateName":"A","suitabilityScore":50}`,
		"b": `{"candidateName":"B","suitabilityScore":60}`,
	})}
	svc := newTestService(llmFake, true)
	sess := seededSession(t, svc, "jd", pdfFile("a.pdf", "a"), pdfFile("b.pdf", "b"))

	if _, err := svc.Analyze(context.Background(), sess.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	sess.RemoveResume("b.pdf")
	results, err := svc.Analyze(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(results) != 1 || results[0].Analysis.CandidateName != "A" {
		t.Fatalf("expected only the re-run result, got %+v", results)
	}
}

func TestServiceAnalyzeErrors(t *testing.T) {
	llmFake := &fakeLLM{reply: func(string, bool) (string, error) { return "{}", nil }}

	t.Run("extractor unavailable", func(t *testing.T) {
		svc := newTestService(llmFake, false)
		sess := seededSession(t, svc, "jd", pdfFile("a.pdf", "a"))
		if _, err := svc.Analyze(context.Background(), sess.ID); !errors.Is(err, ErrExtractorUnavailable) {
			t.Fatalf("expected ErrExtractorUnavailable, got %v", err)
		}
	})
	t.Run("missing input", func(t *testing.T) {
		svc := newTestService(llmFake, true)
		sess := seededSession(t, svc, "jd")
		if _, err := svc.Analyze(context.Background(), sess.ID); !errors.Is(err, ErrMissingInput) {
			t.Fatalf("expected ErrMissingInput, got %v", err)
		}
	})
	t.Run("unknown session", func(t *testing.T) {
		svc := newTestService(llmFake, true)
		if _, err := svc.Analyze(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestServiceEnhance(t *testing.T) {
	t.Run("success replaces job description", func(t *testing.T) {
		llmFake := &fakeLLM{reply: func(prompt string, structured bool) (string, error) {
			if structured {
				t.Errorf("enhance must use text mode")
			}
			return "A better job description.", nil
		}}
		svc := newTestService(llmFake, true)
		sess := seededSession(t, svc, "we need go dev")

		got, err := svc.Enhance(context.Background(), sess.ID)
		if err != nil {
			t.Fatalf("enhance: %v", err)
		}
		if got != "A better job description." || sess.JobDescription() != got {
			t.Fatalf("job description not replaced: %q", sess.JobDescription())
		}
	})

	t.Run("failure leaves job description", func(t *testing.T) {
		llmFake := &fakeLLM{reply: func(string, bool) (string, error) { return "", errors.New("quota exceeded") }}
		svc := newTestService(llmFake, true)
		sess := seededSession(t, svc, "original")

		_, err := svc.Enhance(context.Background(), sess.ID)
		var upstream *UpstreamError
		if !errors.As(err, &upstream) || upstream.Error() != "quota exceeded" {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if sess.JobDescription() != "original" {
			t.Fatalf("job description changed to %q", sess.JobDescription())
		}
	})

	t.Run("blank job description", func(t *testing.T) {
		llmFake := &fakeLLM{reply: func(string, bool) (string, error) { return "x", nil }}
		svc := newTestService(llmFake, true)
		sess := seededSession(t, svc, "  \n")
		if _, err := svc.Enhance(context.Background(), sess.ID); !errors.Is(err, ErrMissingJob) {
			t.Fatalf("expected ErrMissingJob, got %v", err)
		}
		if llmFake.calls() != 0 {
			t.Fatal("model must not be called without a job description")
		}
	})
}

func TestServiceDraftEmail(t *testing.T) {
	analyses := map[string]string{
		"top": `{"jobTitle":"Platform Engineer","candidateName":"Top","suitabilityScore":92,"strengths":["Go","Kubernetes"]}`,
		"mid": `{"jobTitle":"Platform Engineer","candidateName":"Mid","suitabilityScore":71,"strengths":["Terraform"]}`,
		"low": `{"jobTitle":"Platform Engineer","candidateName":"Low","suitabilityScore":40,"strengths":[]}`,
	}
	var emailFails bool
	analysisReply := replyByResume(analyses)
	llmFake := &fakeLLM{reply: func(prompt string, structured bool) (string, error) {
		if structured {
			return analysisReply(prompt, structured)
		}
		if emailFails {
			return "", errors.New("model overloaded")
		}
		return "Dear candidate...", nil
	}}
	svc := newTestService(llmFake, true)
	sess := seededSession(t, svc, "jd", pdfFile("low.pdf", "low"), pdfFile("mid.pdf", "mid"), pdfFile("top.pdf", "top"))
	if _, err := svc.Analyze(context.Background(), sess.ID); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	draft, err := svc.DraftEmail(context.Background(), sess.ID, 1)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.Failed || draft.FileName != "mid.pdf" || draft.Content != "Dear candidate..." {
		t.Fatalf("unexpected draft %+v", draft)
	}
	last := llmFake.prompts[len(llmFake.prompts)-1]
	if !strings.Contains(last, `"Mid"`) || !strings.Contains(last, `"Platform Engineer"`) || !strings.Contains(last, "Terraform") {
		t.Fatalf("email prompt missing candidate details: %s", last)
	}

	if _, err := svc.DraftEmail(context.Background(), sess.ID, 2); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for low score, got %v", err)
	}
	if _, err := svc.DraftEmail(context.Background(), sess.ID, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad index, got %v", err)
	}

	emailFails = true
	draft, err = svc.DraftEmail(context.Background(), sess.ID, 0)
	if err != nil {
		t.Fatalf("draft failure must be reported in the draft, got %v", err)
	}
	if !draft.Failed || draft.Content != "Failed to generate email: model overloaded" {
		t.Fatalf("unexpected failed draft %+v", draft)
	}
}

func TestTopJobTitleFallback(t *testing.T) {
	cases := []struct {
		name    string
		results []AnalysisResult
		want    string
	}{
		{"empty", nil, "the role"},
		{"top failed", []AnalysisResult{{Error: "Failed to analyze: x"}}, "the role"},
		{"blank title", []AnalysisResult{{Analysis: &Analysis{}}}, "the role"},
		{"title", []AnalysisResult{{Analysis: &Analysis{JobTitle: "Data Engineer"}}}, "Data Engineer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := topJobTitle(tc.results); got != tc.want {
				t.Fatalf("topJobTitle() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestServiceAnalyzeSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llmFake := &fakeLLM{reply: replyByResume(map[string]string{
		"a": `{"candidateName":"A","suitabilityScore":80}`,
		"b": `{"candidateName":"B","suitabilityScore":70}`,
		"c": `{"candidateName":"C","suitabilityScore":60}`,
	})}
	// The client goes away while the first file is being scored.
	llmFake.onCall = func(n int) {
		if n == 1 {
			cancel()
		}
	}
	svc := newTestService(llmFake, true)
	sess := seededSession(t, svc, "jd", pdfFile("a.pdf", "a"), pdfFile("b.pdf", "b"), pdfFile("c.pdf", "c"))

	results, err := svc.Analyze(ctx, sess.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if llmFake.calls() != 3 {
		t.Fatalf("expected every file to reach the model, got %d calls", llmFake.calls())
	}
	for _, r := range results {
		if r.Failed() {
			t.Fatalf("%s failed after cancellation: %s", r.FileName, r.Error)
		}
	}
	if got := sess.Results(); len(got) != 3 || got[0].Analysis.CandidateName != "A" {
		t.Fatalf("stored results incomplete: %+v", got)
	}
}
