package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kameo_report/internal/config"
	"kameo_report/internal/handlers"
	"kameo_report/internal/logger"
	"kameo_report/internal/server"
	"kameo_report/internal/services/converter"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Init(setupCtx)
	if err != nil {
		logger.New("info").Fatal().Err(err).Msg("backend connection failed")
	}
	defer cfg.Close(context.Background())

	log := logger.New(cfg.LogLevel)
	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatal().Err(err).Msg("connection check failed")
	}
	log.Info().
		Bool("s3", cfg.S3Enabled).
		Bool("mongo", cfg.MongoEnabled).
		Bool("postgres", cfg.PostgresEnabled).
		Msg("connections ok")

	svc, err := converter.FromConfig(setupCtx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("converter setup failed")
	}

	h := handlers.New(cfg, svc, log)
	srv := server.NewServer(cfg.Port, cfg.APIToken, h)

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := srv.Run(runCtx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
