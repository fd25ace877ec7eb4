// Package reporting snapshots the counting state into periodic reports and
// persists each one at creation time.
package reporting

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/models"
)

// Persister stores a finished report durably.
type Persister interface {
	Save(report models.Report) (string, error)
}

// Publisher pushes a finished report to remote consumers. Optional.
type Publisher interface {
	PublishReport(report models.Report) error
}

// Scheduler fires at a configurable wall-clock interval, checked once per
// processed frame. Firing is deliberately a side effect of frame
// processing rather than a background timer: reports only cover windows
// in which frames were actually flowing, and the first report after an
// idle gap fires on the next processed frame.
type Scheduler struct {
	interval     time.Duration
	nextInterval time.Duration
	lastFire     time.Time

	store     Persister
	publisher Publisher
	reports   []models.Report
}

// NewScheduler creates a scheduler. The interval must be positive; the
// control surface validates it before it gets here.
func NewScheduler(interval time.Duration, store Persister, publisher Publisher) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("report interval must be at least 1s, got %s", interval)
	}
	return &Scheduler{
		interval:     interval,
		nextInterval: interval,
		lastFire:     time.Now(),
		store:        store,
		publisher:    publisher,
	}, nil
}

// SetInterval updates the interval for subsequent periods. The period
// already in progress keeps its original length.
func (s *Scheduler) SetInterval(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("report interval must be at least 1s, got %s", interval)
	}
	s.nextInterval = interval
	return nil
}

// Interval returns the interval governing the current period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Restart resets the period origin without emitting a report. Called when
// a new capture session starts.
func (s *Scheduler) Restart(now time.Time) {
	s.interval = s.nextInterval
	s.lastFire = now
}

// MaybeFire checks whether the current period has elapsed and, if so,
// builds a report from counts, persists and publishes it, and starts the
// next period. It returns the report and true when it fired; the caller
// is responsible for resetting the counting state it snapshotted.
func (s *Scheduler) MaybeFire(now time.Time, counts models.VehicleCount) (models.Report, bool) {
	elapsed := now.Sub(s.lastFire)
	if elapsed < s.interval {
		return models.Report{}, false
	}

	report := models.NewReport(now, s.interval, counts)
	s.reports = append(s.reports, report)
	s.lastFire = now
	s.interval = s.nextInterval

	if s.store != nil {
		if path, err := s.store.Save(report); err != nil {
			log.Error().Err(err).Msg("Failed to persist report")
		} else {
			log.Info().
				Str("path", path).
				Int("total", report.VehicleCount.Total).
				Int("incoming", report.VehicleCount.Incoming).
				Int("outgoing", report.VehicleCount.Outgoing).
				Msg("Report persisted")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(report); err != nil {
			log.Warn().Err(err).Msg("Failed to publish report")
		}
	}

	return report, true
}

// Reports returns the most recent n reports, oldest first. n <= 0 returns
// all of them. The returned slice is a copy.
func (s *Scheduler) Reports(n int) []models.Report {
	if n <= 0 || n > len(s.reports) {
		n = len(s.reports)
	}
	out := make([]models.Report, n)
	copy(out, s.reports[len(s.reports)-n:])
	return out
}
