// Package counting turns per-track centroid trajectories into directional
// crossing counts over a horizontal counting line.
package counting

import (
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/tracking"
)

// DefaultSampleOffset is how many samples back the reference position is
// taken from when testing for a crossing. Comparing against a point 10
// frames back instead of the immediately preceding frame trades a little
// latency for robustness to single-frame jitter.
const DefaultSampleOffset = 10

// Counter detects vertical crossings of a counting line and maintains the
// per-period directional counts. A track id is attributed at most once per
// report period; Reset clears both the counts and the attributed set.
type Counter struct {
	history *tracking.History
	offset  int

	line    int
	lineSet bool

	counts  models.VehicleCount
	counted map[int]struct{}
}

// NewCounter creates a counter reading trajectories from history.
// sampleOffset <= 0 falls back to DefaultSampleOffset.
func NewCounter(history *tracking.History, sampleOffset int) *Counter {
	if sampleOffset <= 0 {
		sampleOffset = DefaultSampleOffset
	}
	return &Counter{
		history: history,
		offset:  sampleOffset,
		counted: make(map[int]struct{}),
	}
}

// SetLine configures the counting line at the given pixel row.
func (c *Counter) SetLine(y int) {
	c.line = y
	c.lineSet = true
}

// Line returns the configured counting line row and whether one is set.
func (c *Counter) Line() (int, bool) {
	return c.line, c.lineSet
}

// Observe is called once per frame per vehicle track, after the track's
// latest centroid has been appended to history. Downward motion through
// the line counts as "in", upward as "out". A sample landing exactly on
// the line triggers neither branch; strict inequality on both sides is
// intentional.
func (c *Counter) Observe(trackID, currY int) {
	if !c.lineSet {
		return
	}
	if _, done := c.counted[trackID]; done {
		return
	}
	// Need the reference sample plus the current one before judging a
	// crossing, so a just-appeared detection never counts.
	if c.history.Len(trackID) <= c.offset {
		return
	}
	prev, ok := c.history.At(trackID, c.offset)
	if !ok {
		return
	}

	switch {
	case prev.Y < c.line && c.line < currY:
		c.counts.In++
		c.counts.Total++
		c.counted[trackID] = struct{}{}
	case prev.Y > c.line && c.line > currY:
		c.counts.Out++
		c.counts.Total++
		c.counted[trackID] = struct{}{}
	}
}

// Counts returns the current period's counts.
func (c *Counter) Counts() models.VehicleCount {
	return c.counts
}

// Counted reports whether the track id has been attributed a crossing in
// the current period.
func (c *Counter) Counted(trackID int) bool {
	_, ok := c.counted[trackID]
	return ok
}

// Reset zeroes the counts and clears the attributed set. Called at every
// report boundary; track histories are left intact.
func (c *Counter) Reset() {
	c.counts = models.VehicleCount{}
	c.counted = make(map[int]struct{})
}
