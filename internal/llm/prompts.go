package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analysis.txt
	analysisTemplate string
	//go:embed prompts/enhance.txt
	enhanceTemplate string
	//go:embed prompts/outreach_email.txt
	outreachEmailTemplate string
)

// DefaultJobTitle is used in outreach emails when no job title was extracted.
const DefaultJobTitle = "the role"

// AnalysisPrompt asks for a structured résumé-versus-job analysis. The reply is
// expected to be a JSON object; use it with structured output enabled.
func AnalysisPrompt(jobDescription, resumeText string) string {
	return strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{RESUME_TEXT}}", resumeText,
	).Replace(analysisTemplate)
}

// EnhancePrompt asks for a rewritten job description as plain text.
func EnhancePrompt(jobDescription string) string {
	return strings.NewReplacer("{{JOB_DESCRIPTION}}", jobDescription).Replace(enhanceTemplate)
}

// OutreachEmailPrompt asks for a plain-text interview invitation for one candidate.
func OutreachEmailPrompt(candidateName, jobTitle string, strengths []string) string {
	if strings.TrimSpace(jobTitle) == "" {
		jobTitle = DefaultJobTitle
	}
	return strings.NewReplacer(
		"{{CANDIDATE_NAME}}", candidateName,
		"{{JOB_TITLE}}", jobTitle,
		"{{STRENGTHS}}", strings.Join(strengths, ", "),
	).Replace(outreachEmailTemplate)
}
