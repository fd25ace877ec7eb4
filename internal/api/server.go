package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"traffic-worker-go/internal/api/handlers"
	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/services/broadcast"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/session"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler    *handlers.HealthHandler
	detectionHandler *handlers.DetectionHandler
	videoHandler     *handlers.VideoHandler
	streamHandler    *handlers.StreamHandler
}

func NewServer(cfg *config.Config, sess *session.Controller, pipe *pipeline.Service, bcast *broadcast.Service) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:           cfg,
		router:           gin.New(),
		healthHandler:    handlers.NewHealthHandler(cfg),
		detectionHandler: handlers.NewDetectionHandler(cfg, sess, pipe),
		videoHandler:     handlers.NewVideoHandler(cfg),
		streamHandler:    handlers.NewStreamHandler(bcast),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s
}

func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
