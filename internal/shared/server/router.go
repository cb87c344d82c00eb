package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/relay"
	"resume-screener/internal/screening"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

const relayRateLimitGroup = "RELAY"

// RelayDeps carries the handlers mounted by the relay binary.
type RelayDeps struct {
	Config config.Config
	Relay  *relay.Handler
	Health *health.Service
}

// ScreenerDeps carries the handlers mounted by the screening binary.
type ScreenerDeps struct {
	Config    config.Config
	Screening *screening.Handler
	Health    *health.Service
}

// NewRelayRouter constructs the relay engine: the Gemini forwarding endpoint,
// health, metrics and the optional static client build.
func NewRelayRouter(deps RelayDeps) *gin.Engine {
	r := newEngine(deps.Config)
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/api/gemini", "/api/analyze":
				return relayRateLimitGroup
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			relayRateLimitGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
		},
	}))

	if deps.Relay != nil {
		deps.Relay.RegisterRoutes(r)
	}
	r.GET("/api/v1/health", healthHandler(deps.Health))
	r.GET("/metrics", metrics.Handler())
	r.NoRoute(staticFallback(deps.Config.StaticDir))
	return r
}

// NewScreenerRouter constructs the screening API engine.
func NewScreenerRouter(deps ScreenerDeps) *gin.Engine {
	r := newEngine(deps.Config)

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(deps.Health))
	if deps.Screening != nil {
		deps.Screening.RegisterRoutes(api)
	}
	r.GET("/metrics", metrics.Handler())
	return r
}

func newEngine(cfg config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)
	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, svc.Status())
	}
}

// staticFallback serves files from dir for non-API paths, falling back to
// index.html so client-side routes resolve.
func staticFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || dir == "" || c.Request.Method != http.MethodGet {
			respond.Message(c, http.StatusNotFound, "Not found.")
			return
		}
		rel := path.Clean("/" + c.Request.URL.Path)
		candidate := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		respond.Message(c, http.StatusNotFound, "Not found.")
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
