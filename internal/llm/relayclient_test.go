package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRelayClientGenerateSendsPromptAndFlag(t *testing.T) {
	var got relayRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"candidateName\":\"Jane\"}"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewRelayClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRelayClient: %v", err)
	}

	text, err := client.Generate(context.Background(), "score this", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"candidateName":"Jane"}` {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Prompt != "score this" || !got.IsJSON {
		t.Fatalf("unexpected relay request %+v", got)
	}
}

func TestRelayClientErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"relay string error", http.StatusBadRequest, `{"error":"Prompt is missing from the request."}`, "Prompt is missing from the request."},
		{"forwarded upstream error", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, "Resource has been exhausted"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, unknownRelayError},
		{"empty error", http.StatusInternalServerError, `{"error":""}`, unknownRelayError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewRelayClient(server.URL, time.Second)
			if err != nil {
				t.Fatalf("NewRelayClient: %v", err)
			}
			_, err = client.Generate(context.Background(), "p", false)
			var relayErr *RelayError
			if !errors.As(err, &relayErr) {
				t.Fatalf("expected RelayError, got %v", err)
			}
			if relayErr.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, relayErr.Status)
			}
			if relayErr.Error() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, relayErr.Error())
			}
		})
	}
}

func TestFirstCandidateTextMissingCandidates(t *testing.T) {
	for _, body := range []string{`{}`, `{"candidates":[]}`, `{"candidates":[{"content":{"parts":[]}}]}`} {
		if _, err := FirstCandidateText([]byte(body)); !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("body %s: expected ErrEmptyResponse, got %v", body, err)
		}
	}
	if _, err := FirstCandidateText([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewRelayClientRequiresURL(t *testing.T) {
	if _, err := NewRelayClient("  ", time.Second); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                   "{\"a\":1}",
		"```json\n{\"a\":1}\n```":     "{\"a\":1}",
		"```\n{\"a\":1}\n```":         "{\"a\":1}",
		"  \n```json\n{\"a\":1}```  ": "{\"a\":1}",
	}
	for in, want := range cases {
		if got := StripCodeFence(in); got != want {
			t.Fatalf("StripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
