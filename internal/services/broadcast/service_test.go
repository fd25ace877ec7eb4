package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/reporting"
	"traffic-worker-go/internal/services/session"
)

type fakeViewer struct {
	messages []*models.StreamMessage
	failAt   int // fail on the Nth send (1-based), 0 = never
}

func (v *fakeViewer) Send(msg *models.StreamMessage) error {
	v.messages = append(v.messages, msg)
	if v.failAt > 0 && len(v.messages) >= v.failAt {
		return errors.New("viewer gone")
	}
	return nil
}

type frameSource struct {
	frames int
	reads  int
}

func (s *frameSource) Read() (*models.RawFrame, error) {
	if s.reads >= s.frames {
		return nil, session.ErrReadFailure
	}
	s.reads++
	return &models.RawFrame{Width: 640, Height: 480, FrameID: int64(s.reads)}, nil
}

func (s *frameSource) Info() models.SourceInfo {
	return models.SourceInfo{Target: "test.mp4", Width: 640, Height: 480, FPS: 30, Seekable: true}
}

func (s *frameSource) Rewind() error {
	s.reads = 0
	return nil
}

func (s *frameSource) Close() error { return nil }

type stubDetector struct{ err error }

func (d *stubDetector) Detect(context.Context, *models.RawFrame) ([]models.Detection, error) {
	return nil, d.err
}

func (d *stubDetector) Close() error { return nil }

type stubAnnotator struct{}

func (stubAnnotator) Annotate(*models.RawFrame, []models.Detection, int, bool, models.VehicleCount) ([]byte, error) {
	return []byte{0xff, 0xd8}, nil
}

func newHarness(t *testing.T, det *stubDetector, src *frameSource) (*Service, *session.Controller) {
	t.Helper()
	cfg := &config.Config{
		HistorySize:          30,
		CrossingSampleOffset: 10,
		CountingLinePosition: 0.5,
		StreamInterval:       time.Millisecond,
	}
	sched, err := reporting.NewScheduler(300*time.Second, nil, nil)
	require.NoError(t, err)
	pipe := pipeline.NewService(cfg, det, stubAnnotator{}, sched)

	sess := session.NewController(func(string) (session.FrameSource, error) {
		if src == nil {
			return nil, session.ErrSourceUnavailable
		}
		return src, nil
	})
	return NewService(cfg, sess, pipe), sess
}

func TestRunDeliversFramesThenTerminalError(t *testing.T) {
	svc, sess := newHarness(t, &stubDetector{}, &frameSource{frames: 3})
	_, err := sess.Start("test.mp4")
	require.NoError(t, err)

	viewer := &fakeViewer{}
	svc.Run(context.Background(), viewer)

	// 3 frame messages plus the terminal error
	require.Len(t, viewer.messages, 4)
	for _, msg := range viewer.messages[:3] {
		assert.NotEmpty(t, msg.Frame)
		require.NotNil(t, msg.Counts)
		assert.Equal(t, msg.Counts.Total, msg.Counts.In+msg.Counts.Out)
		assert.NotEmpty(t, msg.Timestamp)
	}
	last := viewer.messages[3]
	assert.Empty(t, last.Frame)
	assert.Contains(t, last.Error, "stream ended")

	// read failure does not tear the session down by itself
	assert.True(t, sess.Running())
}

func TestRunSendsWaitingWhileIdle(t *testing.T) {
	svc, _ := newHarness(t, &stubDetector{}, nil)

	viewer := &fakeViewer{failAt: 3}
	svc.Run(context.Background(), viewer)

	require.GreaterOrEqual(t, len(viewer.messages), 2)
	for _, msg := range viewer.messages {
		assert.Equal(t, "waiting", msg.Status)
		assert.Empty(t, msg.Frame)
	}
}

func TestRunEndsWhenViewerDisconnects(t *testing.T) {
	svc, sess := newHarness(t, &stubDetector{}, &frameSource{frames: 100})
	_, err := sess.Start("test.mp4")
	require.NoError(t, err)

	viewer := &fakeViewer{failAt: 2}
	svc.Run(context.Background(), viewer)

	assert.Len(t, viewer.messages, 2, "loop ends on viewer send failure")
}

func TestRunAbsorbsDetectorFailure(t *testing.T) {
	det := &stubDetector{err: errors.New("inference timeout")}
	svc, sess := newHarness(t, det, &frameSource{frames: 100})
	_, err := sess.Start("test.mp4")
	require.NoError(t, err)

	viewer := &fakeViewer{failAt: 3}
	svc.Run(context.Background(), viewer)

	require.GreaterOrEqual(t, len(viewer.messages), 2)
	first := viewer.messages[0]
	assert.Contains(t, first.Error, "processing failed")
	assert.Empty(t, first.Frame, "failed iteration carries no frame")
	// the loop kept going after the failed iteration
	assert.Contains(t, viewer.messages[1].Error, "processing failed")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc, sess := newHarness(t, &stubDetector{}, &frameSource{frames: 1 << 30})
	_, err := sess.Start("test.mp4")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	viewer := &fakeViewer{}

	go func() {
		svc.Run(ctx, viewer)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast loop did not stop on context cancel")
	}
}
