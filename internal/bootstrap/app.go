package bootstrap

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/extract"
	"resume-screener/internal/llm"
	"resume-screener/internal/relay"
	"resume-screener/internal/screening"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/telemetry"
)

// RelayApp holds the relay binary's dependencies.
type RelayApp struct {
	Config     config.Config
	Router     *gin.Engine
	Credential relay.Credential
	Handler    *relay.Handler
}

// BuildRelay wires the relay. A missing or unusable credential is logged and
// left nil so every relay call reports the configuration error.
func BuildRelay(ctx context.Context, cfg config.Config) (*RelayApp, error) {
	cfg = withDefaults(cfg)

	cred, err := relay.CredentialFromConfig(ctx, cfg)
	if err != nil {
		telemetry.Error("bootstrap.credential_failed", map[string]any{"auth": cfg.GeminiAuth, "error": err})
		cred = nil
	}
	if cred == nil {
		telemetry.Warn("bootstrap.credential_missing", map[string]any{"auth": cfg.GeminiAuth})
	}

	handler := relay.NewHandler(cfg.GenerateContentURL(), cred, cfg.UpstreamTimeout)
	app := &RelayApp{
		Config:     cfg,
		Credential: cred,
		Handler:    handler,
	}
	app.Router = server.NewRelayRouter(server.RelayDeps{
		Config: cfg,
		Relay:  handler,
		Health: health.NewService(map[string]health.Check{
			"credential": func() string {
				if cred == nil {
					return "missing"
				}
				return "configured"
			},
		}),
	})
	return app, nil
}

// ScreenerApp holds the screening binary's dependencies.
type ScreenerApp struct {
	Config    config.Config
	Router    *gin.Engine
	Extractor *extract.Extractor
	Store     *screening.MemoryStore
	Service   *screening.Service
}

// BuildScreener wires the screening service. The extractor is created but not
// initialized; call InitExtractor before serving traffic.
func BuildScreener(cfg config.Config, client llm.Client) (*ScreenerApp, error) {
	cfg = withDefaults(cfg)

	if client == nil {
		relayClient, err := llm.NewRelayClient(cfg.RelayURL, cfg.RelayTimeout)
		if err != nil {
			return nil, err
		}
		client = relayClient
	}

	extractor := extract.New()
	store := screening.NewMemoryStore()
	if cfg.SessionTTL > 0 {
		store.TTL = cfg.SessionTTL
	}
	if cfg.MaxSessions > 0 {
		store.MaxSessions = cfg.MaxSessions
	}
	svc := &screening.Service{
		Store:     store,
		Analyzer:  &screening.Analyzer{Extractor: extractor, LLM: client},
		LLM:       client,
		Readiness: extractor,
	}

	app := &ScreenerApp{
		Config:    cfg,
		Extractor: extractor,
		Store:     store,
		Service:   svc,
	}
	app.Router = server.NewScreenerRouter(server.ScreenerDeps{
		Config:    cfg,
		Screening: screening.NewHandler(svc, cfg.MaxUploadBytes),
		Health: health.NewService(map[string]health.Check{
			"pdf": func() string { return extractor.State().String() },
		}),
	})
	return app, nil
}

// InitExtractor runs the one-time PDF library self-test. Failure is logged and
// kept: analysis requests keep reporting it for the process lifetime.
func (a *ScreenerApp) InitExtractor(ctx context.Context) error {
	if err := a.Extractor.Init(ctx); err != nil {
		telemetry.Error("bootstrap.pdf_init_failed", map[string]any{"error": err})
		return err
	}
	telemetry.Info("bootstrap.pdf_ready", nil)
	return nil
}

func withDefaults(cfg config.Config) config.Config {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.GeminiAuth) == "" {
		cfg.GeminiAuth = config.AuthAPIKey
	}
	return cfg
}
