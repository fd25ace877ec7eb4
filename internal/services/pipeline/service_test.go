package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/reporting"
)

// scriptedDetector replays one prepared detection set per Detect call.
type scriptedDetector struct {
	frames [][]models.Detection
	calls  int
	err    error
}

func (d *scriptedDetector) Detect(_ context.Context, _ *models.RawFrame) ([]models.Detection, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.calls >= len(d.frames) {
		return nil, nil
	}
	dets := d.frames[d.calls]
	d.calls++
	return dets, nil
}

func (d *scriptedDetector) Close() error { return nil }

// nopAnnotator returns a fixed payload and records what it was asked to draw.
type nopAnnotator struct {
	lastDets   []models.Detection
	lastLine   int
	lastSet    bool
	lastCounts models.VehicleCount
}

func (a *nopAnnotator) Annotate(_ *models.RawFrame, dets []models.Detection, line int, lineSet bool, counts models.VehicleCount) ([]byte, error) {
	a.lastDets = dets
	a.lastLine = line
	a.lastSet = lineSet
	a.lastCounts = counts
	return []byte("jpeg"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		CountingLinePosition: 0.5,
		HistorySize:          30,
		CrossingSampleOffset: 10,
		ReportInterval:       300 * time.Second,
	}
}

func box(trackID, classID, centerY int) models.Detection {
	return models.Detection{
		TrackID: trackID,
		ClassID: classID,
		X1:      100, X2: 200,
		Y1: centerY - 20, Y2: centerY + 20,
		Score: 0.9,
	}
}

// descentFrames produces per-frame detections for one track moving from
// fromY to toY.
func descentFrames(trackID, classID, fromY, toY, n int) [][]models.Detection {
	frames := make([][]models.Detection, n)
	for i := range frames {
		y := fromY + (toY-fromY)*i/(n-1)
		frames[i] = []models.Detection{box(trackID, classID, y)}
	}
	return frames
}

func newTestService(t *testing.T, det *scriptedDetector, ann Annotator) *Service {
	t.Helper()
	cfg := testConfig()
	sched, err := reporting.NewScheduler(cfg.ReportInterval, nil, nil)
	require.NoError(t, err)
	return NewService(cfg, det, ann, sched)
}

func TestProcessCountsDescendingVehicle(t *testing.T) {
	det := &scriptedDetector{frames: descentFrames(1, models.ClassCar, 200, 260, 12)}
	ann := &nopAnnotator{}
	svc := newTestService(t, det, ann)

	svc.ConfigureLine(480) // line at 240
	frame := &models.RawFrame{Width: 640, Height: 480}

	now := time.Now()
	for i := 0; i < 12; i++ {
		out, err := svc.Process(context.Background(), frame, now.Add(time.Duration(i)*33*time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), out.JPEG)
	}

	assert.Equal(t, models.VehicleCount{In: 1, Out: 0, Total: 1}, svc.Counts())
	assert.Equal(t, 240, ann.lastLine)
	assert.True(t, ann.lastSet)
	assert.Equal(t, 1, ann.lastCounts.Total)
}

func TestProcessFiltersNonVehicleClasses(t *testing.T) {
	person := box(9, 0, 230) // COCO person, must be discarded
	car := box(1, models.ClassCar, 230)
	det := &scriptedDetector{frames: [][]models.Detection{{person, car}}}
	ann := &nopAnnotator{}
	svc := newTestService(t, det, ann)
	svc.ConfigureLine(480)

	_, err := svc.Process(context.Background(), &models.RawFrame{Width: 640, Height: 480}, time.Now())
	require.NoError(t, err)

	require.Len(t, ann.lastDets, 1)
	assert.Equal(t, 1, ann.lastDets[0].TrackID)
}

func TestProcessPropagatesDetectorError(t *testing.T) {
	det := &scriptedDetector{err: errors.New("model exploded")}
	svc := newTestService(t, det, &nopAnnotator{})
	svc.ConfigureLine(480)

	_, err := svc.Process(context.Background(), &models.RawFrame{Width: 640, Height: 480}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detection failed")
}

func TestProcessFiresReportAndResetsCounts(t *testing.T) {
	cfg := testConfig()
	cfg.ReportInterval = 10 * time.Second
	sched, err := reporting.NewScheduler(cfg.ReportInterval, nil, nil)
	require.NoError(t, err)

	frames := descentFrames(1, models.ClassTruck, 200, 280, 12)
	// pad with empty frames so the report fires after the crossing
	frames = append(frames, nil, nil)
	det := &scriptedDetector{frames: frames}
	svc := NewService(cfg, det, &nopAnnotator{}, sched)
	svc.ConfigureLine(480)

	base := time.Now()
	svc.Reset(base)

	frame := &models.RawFrame{Width: 640, Height: 480}
	for i := 0; i < 12; i++ {
		_, err := svc.Process(context.Background(), frame, base.Add(time.Duration(i)*100*time.Millisecond))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, svc.Counts().Total)

	// next frame lands past the interval: report fires, counts reset
	_, err = svc.Process(context.Background(), frame, base.Add(11*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Counts().Total)

	reports := svc.Reports(0)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].VehicleCount.Total)
	assert.Equal(t, 1, reports[0].VehicleCount.Incoming)
}

func TestResetClearsEngineState(t *testing.T) {
	det := &scriptedDetector{frames: descentFrames(1, models.ClassBus, 200, 280, 12)}
	svc := newTestService(t, det, &nopAnnotator{})
	svc.ConfigureLine(480)

	frame := &models.RawFrame{Width: 640, Height: 480}
	for i := 0; i < 12; i++ {
		_, err := svc.Process(context.Background(), frame, time.Now())
		require.NoError(t, err)
	}
	require.Equal(t, 1, svc.Counts().Total)

	svc.Reset(time.Now())
	assert.Equal(t, models.VehicleCount{}, svc.Counts())
}

func TestSetReportIntervalValidation(t *testing.T) {
	svc := newTestService(t, &scriptedDetector{}, &nopAnnotator{})

	assert.Error(t, svc.SetReportInterval(0))
	assert.NoError(t, svc.SetReportInterval(time.Minute))
}
