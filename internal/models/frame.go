package models

import "time"

// RawFrame is a decoded video frame as packed BGR bytes. Frames are
// converted out of OpenCV Mats as early as possible so the rest of the
// pipeline works on plain data.
type RawFrame struct {
	Data      []byte
	Width     int
	Height    int
	FrameID   int64
	Timestamp time.Time
	Format    string // "BGR24"
}

// ProcessedFrame is the pipeline output: an annotated JPEG plus the
// counts that were current when the frame was processed.
type ProcessedFrame struct {
	JPEG      []byte
	Counts    VehicleCount
	FrameID   int64
	Timestamp time.Time
}

// SourceInfo describes an open frame source.
type SourceInfo struct {
	Target      string  `json:"target"`
	FPS         float64 `json:"fps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TotalFrames int64   `json:"total_frames,omitempty"` // 0 for live sources
	DurationSec float64 `json:"duration_seconds,omitempty"`
	Seekable    bool    `json:"seekable"`
}
