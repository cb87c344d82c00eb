package main

import (
	"context"
	"log"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	telemetry.SetService("relay")
	cfg := config.Load()

	app, err := bootstrap.BuildRelay(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap relay: %v", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("relay.start", map[string]any{
		"addr":       addr,
		"model":      cfg.GeminiModel,
		"auth":       cfg.GeminiAuth,
		"static_dir": cfg.StaticDir,
	})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
