package screening

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

const pdfContentType = "application/pdf"

// Session holds one recruiter's working state: the job description, the
// uploaded résumés and the latest result set.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	jobDescription string
	resumes        []ResumeFile
	results        []AnalysisResult
	analyzing      bool
	updatedAt      time.Time
	lastSeen       time.Time
}

// SessionView is a point-in-time copy of a session safe to serialize.
type SessionView struct {
	ID             string    `json:"sessionId"`
	JobDescription string    `json:"jobDescription"`
	Resumes        []string  `json:"resumes"`
	ResultCount    int       `json:"resultCount"`
	Analyzing      bool      `json:"analyzing"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, updatedAt: now, lastSeen: now}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// idleExpired reports whether the session was untouched for longer than ttl.
// A running analysis keeps the session alive.
func (s *Session) idleExpired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.analyzing && now.Sub(s.lastSeen) > ttl
}

// View returns a snapshot of the session.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.resumes))
	for _, f := range s.resumes {
		names = append(names, f.Name)
	}
	return SessionView{
		ID:             s.ID,
		JobDescription: s.jobDescription,
		Resumes:        names,
		ResultCount:    len(s.results),
		Analyzing:      s.analyzing,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.updatedAt,
	}
}

// JobDescription returns the current job description.
func (s *Session) JobDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription
}

// SetJobDescription replaces the job description.
func (s *Session) SetJobDescription(jd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = jd
	s.updatedAt = time.Now().UTC()
}

// AddResumes appends every PDF in files and returns the names of the rest.
func (s *Session) AddResumes(files []ResumeFile) (accepted, rejected []string) {
	keep := make([]ResumeFile, 0, len(files))
	for _, f := range files {
		if !IsPDF(f) {
			rejected = append(rejected, f.Name)
			continue
		}
		f.ContentType = pdfContentType
		keep = append(keep, f)
		accepted = append(accepted, f.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes = append(s.resumes, keep...)
	s.updatedAt = time.Now().UTC()
	return accepted, rejected
}

// RemoveResume drops every résumé named name and reports how many were removed.
func (s *Session) RemoveResume(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.resumes[:0]
	removed := 0
	for _, f := range s.resumes {
		if f.Name == name {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	// Clear the tail so dropped file bytes can be collected.
	for i := len(kept); i < len(s.resumes); i++ {
		s.resumes[i] = ResumeFile{}
	}
	s.resumes = kept
	if removed > 0 {
		s.updatedAt = time.Now().UTC()
	}
	return removed
}

// Results returns a copy of the latest result set in display order.
func (s *Session) Results() []AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnalysisResult, len(s.results))
	copy(out, s.results)
	return out
}

// beginRun marks the session as analyzing and returns the run inputs.
func (s *Session) beginRun() (string, []ResumeFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzing {
		return "", nil, ErrRunInProgress
	}
	if strings.TrimSpace(s.jobDescription) == "" || len(s.resumes) == 0 {
		return "", nil, ErrMissingInput
	}
	s.analyzing = true
	files := make([]ResumeFile, len(s.resumes))
	copy(files, s.resumes)
	return s.jobDescription, files, nil
}

// finishRun replaces the result set and clears the analyzing flag.
func (s *Session) finishRun(results []AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.analyzing = false
	s.updatedAt = time.Now().UTC()
	s.lastSeen = s.updatedAt
}

// IsPDF accepts a declared application/pdf, or sniffs the content when the
// declared type is missing or generic.
func IsPDF(f ResumeFile) bool {
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	switch declared {
	case pdfContentType:
		return true
	case "", "application/octet-stream":
		return http.DetectContentType(f.Data) == pdfContentType
	default:
		return false
	}
}
