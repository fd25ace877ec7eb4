// Package messaging fans persisted reports out to remote consumers over
// NATS. The worker runs fine without it; reports are still written to
// disk when messaging is disabled.
package messaging

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
)

type Service struct {
	conn    *nats.Conn
	subject string
}

func NewService(cfg *config.Config) (*Service, error) {
	opts := []nats.Option{
		nats.Name("traffic-worker"),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().Str("url", cfg.NatsURL).Str("subject", cfg.ReportsSubject).Msg("NATS connection established")

	return &Service{
		conn:    conn,
		subject: cfg.ReportsSubject,
	}, nil
}

// PublishReport pushes one finished report to the reports subject.
func (s *Service) PublishReport(report models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.conn.Publish(s.subject, payload)
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn != nil {
		// Try graceful drain, fall back to immediate close
		if err := s.conn.Drain(); err != nil {
			log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
			s.conn.Close()
		}
	}
	return nil
}
