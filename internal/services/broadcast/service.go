// Package broadcast runs the cooperative loop that pulls frames through
// the pipeline and delivers stats+frame messages to a connected viewer.
package broadcast

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/session"
)

// Viewer receives serialized stream messages. Send returning an error
// means the viewer is gone and the loop must end.
type Viewer interface {
	Send(msg *models.StreamMessage) error
}

// Service drives one delivery loop per connected viewer. The loop is the
// sole writer of counting state (through the pipeline); every iteration
// ends with a fixed sleep, so the actual cadence is processing time plus
// the configured interval rather than a hard real-time period.
type Service struct {
	cfg      *config.Config
	session  *session.Controller
	pipeline *pipeline.Service
}

func NewService(cfg *config.Config, sess *session.Controller, pipe *pipeline.Service) *Service {
	return &Service{cfg: cfg, session: sess, pipeline: pipe}
}

// Run loops until the viewer disconnects, the context is canceled, or the
// source stops yielding frames. A read failure ends the stream with a
// terminal error message but leaves the session state alone; the
// controller reconciles it on the next explicit stop.
func (s *Service) Run(ctx context.Context, viewer Viewer) {
	log.Info().Msg("Viewer connected, starting broadcast loop")
	defer log.Info().Msg("Broadcast loop ended")

	for {
		if err := s.iterate(ctx, viewer); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.StreamInterval):
		}
	}
}

func (s *Service) iterate(ctx context.Context, viewer Viewer) error {
	now := time.Now()

	if !s.session.Running() {
		return viewer.Send(&models.StreamMessage{
			Status:    "waiting",
			Timestamp: now.Format(time.RFC3339),
		})
	}

	frame, err := s.session.ReadFrame()
	if err != nil {
		// end of stream or a dead source: terminal for this viewer
		log.Warn().Err(err).Msg("Frame read failed, ending stream")
		viewer.Send(&models.StreamMessage{
			Error:     "stream ended: " + err.Error(),
			Timestamp: now.Format(time.RFC3339),
		})
		return errors.New("stream ended")
	}

	processed, err := s.pipeline.Process(ctx, frame, now)
	if err != nil {
		// detector failures are absorbed into this iteration; the next
		// frame gets a fresh attempt
		log.Error().Err(err).Int64("frame_id", frame.FrameID).Msg("Frame processing failed")
		return viewer.Send(&models.StreamMessage{
			Error:     "processing failed: " + err.Error(),
			Timestamp: now.Format(time.RFC3339),
		})
	}

	counts := processed.Counts
	return viewer.Send(&models.StreamMessage{
		Frame:     base64.StdEncoding.EncodeToString(processed.JPEG),
		Counts:    &counts,
		Timestamp: processed.Timestamp.Format(time.RFC3339),
	})
}
