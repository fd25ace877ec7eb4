// Package detection wraps the external detection/tracking model. The model
// assigns persistent track ids across consecutive frames; from the
// pipeline's point of view each call is stateless.
package detection

import (
	"context"

	"traffic-worker-go/internal/models"
)

// Detector runs the external model on one frame and returns the tracked
// detections it found. Implementations own their identity-persistence
// state; callers just supply consecutive frames.
type Detector interface {
	Detect(ctx context.Context, frame *models.RawFrame) ([]models.Detection, error)
	Close() error
}
