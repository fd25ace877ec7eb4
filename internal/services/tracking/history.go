// Package tracking keeps a bounded per-track buffer of recent centroid
// positions. It is the data substrate the line-crossing counter reads from.
package tracking

// Point is one recorded centroid position.
type Point struct {
	X int
	Y int
}

// ringBuffer is a fixed-capacity FIFO of points. Appending beyond capacity
// overwrites the oldest entry in O(1).
type ringBuffer struct {
	buf  []Point
	head int // index of the oldest entry
	size int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]Point, capacity)}
}

func (r *ringBuffer) push(p Point) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = p
		r.size++
		return
	}
	r.buf[r.head] = p
	r.head = (r.head + 1) % len(r.buf)
}

// at returns the entry offset samples back from the latest (0 = latest).
func (r *ringBuffer) at(offset int) (Point, bool) {
	if offset < 0 || offset >= r.size {
		return Point{}, false
	}
	idx := (r.head + r.size - 1 - offset) % len(r.buf)
	return r.buf[idx], true
}

func (r *ringBuffer) points() []Point {
	out := make([]Point, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

type trackEntry struct {
	ring     *ringBuffer
	lastSeen uint64
}

// History stores the recent centroid positions of every active track,
// capped at a fixed window per track (oldest evicted first). Tracks that
// stop receiving updates are pruned after maxIdle ticks so long sessions
// with many distinct ids do not grow without bound.
type History struct {
	capacity int
	maxIdle  uint64
	tick     uint64
	tracks   map[int]*trackEntry
}

// NewHistory creates a store keeping up to capacity positions per track.
// maxIdle <= 0 disables idle pruning.
func NewHistory(capacity, maxIdle int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	h := &History{
		capacity: capacity,
		tracks:   make(map[int]*trackEntry),
	}
	if maxIdle > 0 {
		h.maxIdle = uint64(maxIdle)
	}
	return h
}

// Update appends a centroid for the track, creating the track on first
// sighting and evicting the oldest position once the window is full.
func (h *History) Update(trackID, x, y int) {
	e, ok := h.tracks[trackID]
	if !ok {
		e = &trackEntry{ring: newRingBuffer(h.capacity)}
		h.tracks[trackID] = e
	}
	e.ring.push(Point{X: x, Y: y})
	e.lastSeen = h.tick
}

// Len returns the number of recorded positions for the track.
func (h *History) Len(trackID int) int {
	if e, ok := h.tracks[trackID]; ok {
		return e.ring.size
	}
	return 0
}

// At returns the position offset samples back from the latest one
// (offset 0 is the most recent).
func (h *History) At(trackID, offset int) (Point, bool) {
	e, ok := h.tracks[trackID]
	if !ok {
		return Point{}, false
	}
	return e.ring.at(offset)
}

// Positions returns the ordered positions for the track, oldest first.
// The result is a copy; an unknown id yields an empty slice.
func (h *History) Positions(trackID int) []Point {
	e, ok := h.tracks[trackID]
	if !ok {
		return nil
	}
	return e.ring.points()
}

// Tracks returns the number of tracks currently held.
func (h *History) Tracks() int {
	return len(h.tracks)
}

// Tick advances the frame counter and prunes tracks that have not been
// updated for maxIdle ticks. Called once per processed frame, before the
// frame's updates.
func (h *History) Tick() {
	h.tick++
	if h.maxIdle == 0 {
		return
	}
	for id, e := range h.tracks {
		if h.tick-e.lastSeen > h.maxIdle {
			delete(h.tracks, id)
		}
	}
}

// Clear removes all tracks.
func (h *History) Clear() {
	h.tracks = make(map[int]*trackEntry)
}
