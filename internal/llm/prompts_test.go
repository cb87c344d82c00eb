package llm

import (
	"strings"
	"testing"
)

func TestAnalysisPromptEmbedsInputs(t *testing.T) {
	prompt := AnalysisPrompt("Backend engineer, Go", "Jane Doe\n10 years of Go")

	for _, want := range []string{
		"Job Description:\n---\nBackend engineer, Go\n---",
		"Resume:\n---\nJane Doe\n10 years of Go\n---",
		`"suitabilityScore": (number)`,
		`"suggestedQuestions"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", prompt)
	}
}

func TestAnalysisPromptDoesNotExpandPlaceholdersInInput(t *testing.T) {
	prompt := AnalysisPrompt("mentions {{RESUME_TEXT}} literally", "resume body")
	if !strings.Contains(prompt, "mentions {{RESUME_TEXT}} literally") {
		t.Fatalf("job description placeholders must be left verbatim")
	}
}

func TestEnhancePrompt(t *testing.T) {
	prompt := EnhancePrompt("We need a Go dev.")
	if !strings.HasSuffix(strings.TrimSpace(prompt), "---\nWe need a Go dev.") {
		t.Fatalf("unexpected enhance prompt:\n%s", prompt)
	}
}

func TestOutreachEmailPrompt(t *testing.T) {
	tests := []struct {
		name      string
		jobTitle  string
		wantTitle string
	}{
		{name: "explicit title", jobTitle: "Staff Engineer", wantTitle: `"Staff Engineer" position`},
		{name: "fallback title", jobTitle: "  ", wantTitle: `"the role" position`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			prompt := OutreachEmailPrompt("Jane Doe", tt.jobTitle, []string{"Go", "Kubernetes"})
			if !strings.Contains(prompt, tt.wantTitle) {
				t.Fatalf("expected %q in prompt:\n%s", tt.wantTitle, prompt)
			}
			if !strings.Contains(prompt, `"Jane Doe"`) {
				t.Fatalf("expected candidate name in prompt")
			}
			if !strings.Contains(prompt, `"Go, Kubernetes"`) {
				t.Fatalf("expected joined strengths in prompt")
			}
		})
	}
}
