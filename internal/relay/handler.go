package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

const (
	msgNoCredential  = "API key not configured on the server."
	msgMissingPrompt = "Prompt is missing from the request."
	msgInternal      = "An internal server error occurred."
)

// Handler forwards prompts to the Gemini generateContent endpoint.
type Handler struct {
	Endpoint   string
	Credential Credential
	HTTPClient *http.Client
}

// NewHandler constructs a Handler. A nil credential makes every request fail
// with a configuration error.
func NewHandler(endpoint string, cred Credential, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Handler{
		Endpoint:   endpoint,
		Credential: cred,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// RegisterRoutes attaches the relay endpoint and its legacy alias.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/api/gemini", h.generate)
	r.POST("/api/analyze", h.generate)
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	IsJSON bool   `json:"isJson"`
}

func (h *Handler) generate(c *gin.Context) {
	metrics.IncRelayRequest()

	if h.Credential == nil {
		metrics.IncRelayConfigError()
		respond.Message(c, http.StatusInternalServerError, msgNoCredential)
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		respond.Message(c, http.StatusBadRequest, msgMissingPrompt)
		return
	}
	c.Set("structured", req.IsJSON)

	upstream, err := NewUpstreamRequest(c.Request.Context(), h.Endpoint, NewPayload(req.Prompt, req.IsJSON), h.Credential)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			metrics.IncRelayConfigError()
			respond.Message(c, http.StatusInternalServerError, msgNoCredential)
			return
		}
		h.fail(c, "relay.request_build_failed", err)
		return
	}

	start := time.Now()
	resp, err := h.HTTPClient.Do(upstream)
	metrics.ObserveRelayUpstreamMs(metrics.SinceMillis(start))
	if err != nil {
		h.fail(c, "relay.upstream_unreachable", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.fail(c, "relay.upstream_read_failed", err)
		return
	}
	c.Set("upstreamStatus", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncRelayUpstreamError()
		telemetry.Warn("relay.upstream_error", map[string]any{
			"request_id":      c.GetString("requestId"),
			"upstream_status": resp.StatusCode,
		})
		respond.Raw(c, resp.StatusCode, resp.Header.Get("Content-Type"), body)
		return
	}

	if !json.Valid(body) {
		h.fail(c, "relay.upstream_invalid_json", errors.New("upstream success body is not JSON"))
		return
	}
	respond.Raw(c, resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

func (h *Handler) fail(c *gin.Context, event string, err error) {
	metrics.IncRelayUpstreamError()
	telemetry.Error(event, map[string]any{
		"request_id": c.GetString("requestId"),
		"error":      err,
	})
	respond.Message(c, http.StatusInternalServerError, msgInternal)
}
