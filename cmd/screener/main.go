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
	telemetry.SetService("screener")
	cfg := config.Load()

	app, err := bootstrap.BuildScreener(cfg, nil)
	if err != nil {
		log.Fatalf("bootstrap screener: %v", err)
	}
	// A failed self-test is not fatal: the API stays up and reports it on analyze.
	_ = app.InitExtractor(context.Background())

	addr := server.Addr(cfg.ScreenerPort)
	telemetry.Info("screener.start", map[string]any{
		"addr":      addr,
		"relay_url": cfg.RelayURL,
		"pdf":       app.Extractor.State().String(),
	})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
