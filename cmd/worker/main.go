package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/api"
	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/logging"
	"traffic-worker-go/internal/services/broadcast"
	"traffic-worker-go/internal/services/detection"
	"traffic-worker-go/internal/services/messaging"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/reporting"
	"traffic-worker-go/internal/services/session"
)

// @title Traffic Worker API
// @version 1.0.0
// @description Vehicle detection, counting and reporting worker for video streams
// @BasePath /
func main() {
	cfg := config.Load()
	logging.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("detector", cfg.DetectorAddr).
		Msg("Starting traffic worker")

	detector, err := detection.NewTritonDetector(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to detector")
	}
	defer detector.Close()

	var publisher reporting.Publisher
	var nats *messaging.Service
	if cfg.NatsEnabled {
		nats, err = messaging.NewService(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		publisher = nats
	}

	store, err := reporting.NewFileStore(cfg.ReportDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report store")
	}

	scheduler, err := reporting.NewScheduler(cfg.ReportInterval, store, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report scheduler")
	}

	pipe := pipeline.NewService(cfg, detector, pipeline.NewGocvAnnotator(cfg), scheduler)
	sess := session.NewController(session.OpenVideoSource)
	bcast := broadcast.NewService(cfg, sess, pipe)

	server := api.NewServer(cfg, sess, pipe, bcast)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sess.Stop()

	if nats != nil {
		if err := nats.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("NATS shutdown failed")
		}
	}

	log.Info().Msg("Shutdown complete")
}
