package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// Payload is the generateContent request body sent upstream.
type Payload struct {
	Contents         []*genai.Content  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

// NewPayload wraps prompt as a single user turn. With structured set the model
// is asked to answer with application/json.
func NewPayload(prompt string, structured bool) Payload {
	p := Payload{
		Contents: []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
	}
	if structured {
		p.GenerationConfig = &generationConfig{ResponseMIMEType: jsonMIMEType}
	}
	return p
}

// NewUpstreamRequest maps a payload and credential to the outbound POST.
func NewUpstreamRequest(ctx context.Context, endpoint string, payload Payload, cred Credential) (*http.Request, error) {
	if cred == nil {
		return nil, ErrNoCredential
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", jsonMIMEType)
	if err := cred.Apply(req); err != nil {
		return nil, fmt.Errorf("apply credential: %w", err)
	}
	return req, nil
}
