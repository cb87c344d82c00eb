package health

// Check reports the state of one dependency.
type Check func() string

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a health service with the given named checks.
func NewService(checks map[string]Check) *Service {
	return &Service{checks: checks}
}

// Status returns the health payload. The service is always up; checks only
// describe optional capabilities.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true}
	if s == nil {
		return out
	}
	for name, check := range s.checks {
		if check != nil {
			out[name] = check()
		}
	}
	return out
}
