package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const unknownRelayError = "An unknown error occurred with the backend server."

// RelayClient implements Client by calling the credential-holding relay over HTTP.
type RelayClient struct {
	url        string
	httpClient *http.Client
}

// NewRelayClient constructs a client for the relay endpoint at url.
func NewRelayClient(url string, timeout time.Duration) (*RelayClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("RELAY_URL is required")
	}
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &RelayClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type relayRequest struct {
	Prompt string `json:"prompt"`
	IsJSON bool   `json:"isJson"`
}

// Generate posts the prompt to the relay and returns the first candidate's first text part.
func (c *RelayClient) Generate(ctx context.Context, prompt string, structured bool) (string, error) {
	payload, err := json.Marshal(relayRequest{Prompt: prompt, IsJSON: structured})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("relay request timeout: %w", err)
		}
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("relay response read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RelayError{Status: resp.StatusCode, Message: relayErrorMessage(body)}
	}

	return FirstCandidateText(body)
}

// RelayError carries a non-2xx relay response.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

// FirstCandidateText decodes a generateContent response body and returns the
// text of the first part of the first candidate.
func FirstCandidateText(body []byte) (string, error) {
	var parsed genai.GenerateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("relay response parse: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	content := parsed.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", ErrEmptyResponse
	}
	return content.Parts[0].Text, nil
}

// relayErrorMessage extracts the error from either the relay's own
// {"error": "..."} body or a forwarded upstream {"error": {"message": ...}} body.
func relayErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return unknownRelayError
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil {
		if strings.TrimSpace(msg) == "" {
			return unknownRelayError
		}
		return msg
	}

	var upstream struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &upstream); err == nil && strings.TrimSpace(upstream.Message) != "" {
		return upstream.Message
	}
	return unknownRelayError
}

var _ Client = (*RelayClient)(nil)
