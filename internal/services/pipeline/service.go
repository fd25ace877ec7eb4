// Package pipeline is the per-frame orchestrator: it drives the report
// scheduler, the external detector, the track history store and the
// line-crossing counter, and produces an annotated frame for delivery.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/counting"
	"traffic-worker-go/internal/services/detection"
	"traffic-worker-go/internal/services/reporting"
	"traffic-worker-go/internal/services/tracking"
)

// Annotator renders detections, the counting line and the count overlay
// onto a copy of the frame and returns it JPEG-encoded. The input frame is
// never modified.
type Annotator interface {
	Annotate(frame *models.RawFrame, dets []models.Detection, line int, lineSet bool, counts models.VehicleCount) ([]byte, error)
}

// Service processes one frame at a time. All counting state lives behind a
// single mutex: the broadcast loop is the sole writer, while HTTP handlers
// read consistent snapshots through Counts and Reports.
type Service struct {
	cfg       *config.Config
	detector  detection.Detector
	annotator Annotator

	mu        sync.Mutex
	history   *tracking.History
	counter   *counting.Counter
	scheduler *reporting.Scheduler
}

// NewService wires the counting engine together.
func NewService(cfg *config.Config, detector detection.Detector, annotator Annotator, scheduler *reporting.Scheduler) *Service {
	history := tracking.NewHistory(cfg.HistorySize, cfg.TrackMaxIdle)
	return &Service{
		cfg:       cfg,
		detector:  detector,
		annotator: annotator,
		history:   history,
		counter:   counting.NewCounter(history, cfg.CrossingSampleOffset),
		scheduler: scheduler,
	}
}

// ConfigureLine derives the counting line from the frame height and the
// configured relative position. Called once per session, from the first
// frame of the new source.
func (s *Service) ConfigureLine(frameHeight int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := int(float64(frameHeight) * s.cfg.CountingLinePosition)
	s.counter.SetLine(line)

	log.Info().
		Int("line", line).
		Int("frame_height", frameHeight).
		Float64("position", s.cfg.CountingLinePosition).
		Msg("Counting line configured")
}

// Process runs one frame through the engine and returns an annotated
// copy. The input buffer is never mutated. A detector error propagates to
// the caller; the broadcast loop owns the recovery policy.
func (s *Service) Process(ctx context.Context, frame *models.RawFrame, now time.Time) (*models.ProcessedFrame, error) {
	s.mu.Lock()
	if report, fired := s.scheduler.MaybeFire(now, s.counter.Counts()); fired {
		s.counter.Reset()
		log.Info().
			Time("period_end", report.Timestamp).
			Float64("duration_minutes", report.DurationMinutes).
			Int("total", report.VehicleCount.Total).
			Msg("Report period closed, counts reset")
	}
	s.mu.Unlock()

	// The detector call blocks on remote computation; it runs outside the
	// engine lock so stats reads never stall behind inference, and under a
	// deadline so a hung detector costs one frame, not the whole loop.
	detCtx := ctx
	if s.cfg.DetectorTimeout > 0 {
		var cancel context.CancelFunc
		detCtx, cancel = context.WithTimeout(ctx, s.cfg.DetectorTimeout)
		defer cancel()
	}
	dets, err := s.detector.Detect(detCtx, frame)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	vehicles := dets[:0:0]
	for _, d := range dets {
		if models.IsVehicleClass(d.ClassID) {
			vehicles = append(vehicles, d)
		}
	}

	s.mu.Lock()
	s.history.Tick()
	for _, d := range vehicles {
		x, y := d.Centroid()
		s.history.Update(d.TrackID, x, y)
		s.counter.Observe(d.TrackID, y)
	}
	line, lineSet := s.counter.Line()
	counts := s.counter.Counts()
	s.mu.Unlock()

	jpeg, err := s.annotator.Annotate(frame, vehicles, line, lineSet, counts)
	if err != nil {
		return nil, fmt.Errorf("annotation failed: %w", err)
	}

	return &models.ProcessedFrame{
		JPEG:      jpeg,
		Counts:    counts,
		FrameID:   frame.FrameID,
		Timestamp: now,
	}, nil
}

// Counts returns a snapshot of the current period's counts.
func (s *Service) Counts() models.VehicleCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.Counts()
}

// Reports returns the most recent n reports (all of them for n <= 0).
func (s *Service) Reports(n int) []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Reports(n)
}

// SetReportInterval updates the scheduler for subsequent periods only.
func (s *Service) SetReportInterval(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.SetInterval(interval)
}

// ReportInterval returns the interval governing the current period.
func (s *Service) ReportInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Interval()
}

// Reset clears all counting state for a new session: counts, counted set,
// track histories, and the report period origin. Persisted reports are
// kept.
func (s *Service) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter.Reset()
	s.history.Clear()
	s.scheduler.Restart(now)
}
