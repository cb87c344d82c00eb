package screening

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// fakeExtractor treats file bytes as the extracted text. Data starting with
// "fail:" errors and "panic" panics.
type fakeExtractor struct{}

func (fakeExtractor) ExtractText(_ context.Context, data []byte) (string, error) {
	s := string(data)
	switch {
	case strings.HasPrefix(s, "fail:"):
		return "", errors.New(strings.TrimPrefix(s, "fail:"))
	case s == "panic":
		panic("corrupt xref table")
	}
	return s, nil
}

// fakeLLM records prompts in call order and the highest number of calls seen
// in flight at once. Like a real HTTP client it fails on a done context.
type fakeLLM struct {
	mu          sync.Mutex
	prompts     []string
	inFlight    int
	maxInFlight int
	onCall      func(n int)
	reply       func(prompt string, structured bool) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, structured bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	n := len(f.prompts)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.onCall != nil {
		f.onCall(n)
	}
	return f.reply(prompt, structured)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type staticReadiness bool

func (r staticReadiness) Ready() bool { return bool(r) }

// replyByResume answers analysis prompts with the reply registered for the
// résumé text the prompt contains.
func replyByResume(replies map[string]string) func(string, bool) (string, error) {
	return func(prompt string, _ bool) (string, error) {
		for text, reply := range replies {
			if strings.Contains(prompt, "Resume:\n---\n"+text+"\n---") {
				if strings.HasPrefix(reply, "error:") {
					return "", errors.New(strings.TrimPrefix(reply, "error:"))
				}
				return reply, nil
			}
		}
		return "", errors.New("unexpected prompt")
	}
}

func pdfFile(name, text string) ResumeFile {
	return ResumeFile{Name: name, ContentType: "application/pdf", Data: []byte(text)}
}

func nowForTest() time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
}
