package session

import (
	"fmt"
	"strconv"
	"time"

	"gocv.io/x/gocv"

	"traffic-worker-go/internal/models"
)

// FrameSource is a sequential frame reader with known properties.
// File-backed sources support rewinding to the start.
type FrameSource interface {
	Read() (*models.RawFrame, error)
	Info() models.SourceInfo
	Rewind() error
	Close() error
}

// Opener opens a frame source for a target (a file path or a numeric
// device id). Swappable so tests can run without OpenCV.
type Opener func(target string) (FrameSource, error)

// videoSource wraps a gocv VideoCapture.
type videoSource struct {
	cap     *gocv.VideoCapture
	info    models.SourceInfo
	frameID int64
}

// OpenVideoSource opens a video file or a capture device ("0", "1", ...).
func OpenVideoSource(target string) (FrameSource, error) {
	var cap *gocv.VideoCapture
	var err error
	seekable := true

	if device, convErr := strconv.Atoi(target); convErr == nil {
		cap, err = gocv.OpenVideoCapture(device)
		seekable = false
	} else {
		cap, err = gocv.VideoCaptureFile(target)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, target, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, target)
	}

	info := models.SourceInfo{
		Target:   target,
		FPS:      cap.Get(gocv.VideoCaptureFPS),
		Width:    int(cap.Get(gocv.VideoCaptureFrameWidth)),
		Height:   int(cap.Get(gocv.VideoCaptureFrameHeight)),
		Seekable: seekable,
	}
	if seekable {
		info.TotalFrames = int64(cap.Get(gocv.VideoCaptureFrameCount))
		if info.FPS > 0 && info.TotalFrames > 0 {
			info.DurationSec = float64(info.TotalFrames) / info.FPS
		}
	}

	return &videoSource{cap: cap, info: info}, nil
}

func (s *videoSource) Read() (*models.RawFrame, error) {
	img := gocv.NewMat()
	defer img.Close()

	if ok := s.cap.Read(&img); !ok || img.Empty() {
		return nil, ErrReadFailure
	}

	s.frameID++
	return &models.RawFrame{
		Data:      img.ToBytes(),
		Width:     img.Cols(),
		Height:    img.Rows(),
		FrameID:   s.frameID,
		Timestamp: time.Now(),
		Format:    "BGR24",
	}, nil
}

func (s *videoSource) Info() models.SourceInfo {
	return s.info
}

func (s *videoSource) Rewind() error {
	if !s.info.Seekable {
		return nil
	}
	s.cap.Set(gocv.VideoCapturePosFrames, 0)
	s.frameID = 0
	return nil
}

func (s *videoSource) Close() error {
	return s.cap.Close()
}
