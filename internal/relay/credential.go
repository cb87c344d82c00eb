package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-screener/internal/shared/config"
)

// GenerativeLanguageScope is the OAuth scope accepted by the Gemini REST API.
const GenerativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

// ErrNoCredential is returned when no upstream credential was configured.
var ErrNoCredential = errors.New("no upstream credential configured")

// Credential authorizes an outbound Gemini request.
type Credential interface {
	Apply(req *http.Request) error
}

// APIKey sends the key in the x-goog-api-key header.
type APIKey string

func (k APIKey) Apply(req *http.Request) error {
	if strings.TrimSpace(string(k)) == "" {
		return ErrNoCredential
	}
	req.Header.Set("x-goog-api-key", string(k))
	return nil
}

// OAuthCredential sends a bearer token minted by Source.
type OAuthCredential struct {
	Source oauth2.TokenSource
}

func (o OAuthCredential) Apply(req *http.Request) error {
	if o.Source == nil {
		return ErrNoCredential
	}
	token, err := o.Source.Token()
	if err != nil {
		return fmt.Errorf("oauth token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

// CredentialFromConfig picks the credential for cfg.GeminiAuth. A nil
// Credential with a nil error means nothing is configured.
func CredentialFromConfig(ctx context.Context, cfg config.Config) (Credential, error) {
	switch cfg.GeminiAuth {
	case config.AuthOAuth:
		source, err := google.DefaultTokenSource(ctx, GenerativeLanguageScope)
		if err != nil {
			return nil, fmt.Errorf("default credentials: %w", err)
		}
		return OAuthCredential{Source: oauth2.ReuseTokenSource(nil, source)}, nil
	default:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return APIKey(cfg.GeminiAPIKey), nil
	}
}
