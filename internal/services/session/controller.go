// Package session owns the active frame source and its lifecycle. At most
// one source is open at a time; the controller is the only component that
// opens and releases it.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/models"
)

var (
	// ErrSourceUnavailable means the frame source could not be opened or
	// yielded no readable first frame.
	ErrSourceUnavailable = errors.New("frame source unavailable")

	// ErrReadFailure means a previously-open source stopped yielding
	// frames mid-session.
	ErrReadFailure = errors.New("frame read failed")

	// ErrNoSession means a frame was requested while no session is active.
	ErrNoSession = errors.New("no active session")
)

// Controller is the Idle <-> Active state machine around the frame
// source. Start replaces any running session (last-start-wins); Stop is
// idempotent. A mid-stream read failure does NOT transition the session
// to Idle: the broadcast loop ends its stream, and the dead source stays
// attached until an explicit Stop reconciles it.
type Controller struct {
	opener Opener

	mu        sync.RWMutex
	source    FrameSource
	info      models.SourceInfo
	running   bool
	startedAt time.Time
}

// NewController creates a controller using the given source opener.
func NewController(opener Opener) *Controller {
	return &Controller{opener: opener}
}

// Start opens the target and transitions to Active. The first frame is
// probed to derive the counting line geometry and to reject sources that
// open but never produce frames; file-backed sources are rewound
// afterwards so playback starts at the beginning. A session already in
// progress is stopped first.
func (c *Controller) Start(target string) (models.SourceInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		log.Info().Str("previous", c.info.Target).Str("target", target).Msg("Replacing active session")
		c.releaseLocked()
	}

	source, err := c.opener(target)
	if err != nil {
		return models.SourceInfo{}, err
	}

	first, err := source.Read()
	if err != nil {
		source.Close()
		return models.SourceInfo{}, fmt.Errorf("%w: %s yielded no first frame", ErrSourceUnavailable, target)
	}

	info := source.Info()
	// some containers misreport dimensions; trust the decoded frame
	info.Width = first.Width
	info.Height = first.Height

	if err := source.Rewind(); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Failed to rewind source after probe")
	}

	c.source = source
	c.info = info
	c.running = true
	c.startedAt = time.Now()

	log.Info().
		Str("target", target).
		Float64("fps", info.FPS).
		Int("width", info.Width).
		Int("height", info.Height).
		Int64("total_frames", info.TotalFrames).
		Msg("Session started")

	return info, nil
}

// Stop releases the source and transitions to Idle. Calling Stop while
// already Idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running && c.source == nil {
		return
	}
	c.releaseLocked()
	log.Info().Msg("Session stopped")
}

func (c *Controller) releaseLocked() {
	if c.source != nil {
		if err := c.source.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release frame source")
		}
		c.source = nil
	}
	c.running = false
	c.info = models.SourceInfo{}
	c.startedAt = time.Time{}
}

// Running reports whether a session is active.
func (c *Controller) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Info returns the active session's source metadata.
func (c *Controller) Info() (models.SourceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info, c.running
}

// ReadFrame reads the next frame from the active source.
func (c *Controller) ReadFrame() (*models.RawFrame, error) {
	c.mu.RLock()
	source := c.source
	running := c.running
	c.mu.RUnlock()

	if !running || source == nil {
		return nil, ErrNoSession
	}
	return source.Read()
}
