package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/reporting"
	"traffic-worker-go/internal/services/session"
)

type fakeSource struct {
	info models.SourceInfo
}

func (f *fakeSource) Read() (*models.RawFrame, error) {
	return &models.RawFrame{
		Data:   make([]byte, f.info.Width*f.info.Height*3),
		Width:  f.info.Width,
		Height: f.info.Height,
		Format: "BGR24",
	}, nil
}

func (f *fakeSource) Info() models.SourceInfo { return f.info }
func (f *fakeSource) Rewind() error           { return nil }
func (f *fakeSource) Close() error            { return nil }

type fakeDetector struct{}

func (fakeDetector) Detect(context.Context, *models.RawFrame) ([]models.Detection, error) {
	return nil, nil
}
func (fakeDetector) Close() error { return nil }

type fakeAnnotator struct{}

func (fakeAnnotator) Annotate(*models.RawFrame, []models.Detection, int, bool, models.VehicleCount) ([]byte, error) {
	return []byte{0xff, 0xd8}, nil
}

type discardStore struct{}

func (discardStore) Save(models.Report) (string, error) { return "discard", nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		WorkerID:             "worker-test",
		Version:              "1.0.0",
		VideoDir:             t.TempDir(),
		CountingLinePosition: 0.5,
		HistorySize:          30,
		CrossingSampleOffset: 10,
		ReportInterval:       5 * time.Minute,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, opener session.Opener) (*gin.Engine, *DetectionHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scheduler, err := reporting.NewScheduler(cfg.ReportInterval, discardStore{}, nil)
	require.NoError(t, err)

	pipe := pipeline.NewService(cfg, fakeDetector{}, fakeAnnotator{}, scheduler)
	sess := session.NewController(opener)
	h := NewDetectionHandler(cfg, sess, pipe)

	r := gin.New()
	r.POST("/detection/start", h.Start)
	r.POST("/detection/stop", h.Stop)
	r.GET("/detection/stats", h.Stats)
	r.POST("/detection/report-interval", h.SetReportInterval)
	r.GET("/reports", h.Reports)
	return r, h
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartOpensVideoFromLibrary(t *testing.T) {
	cfg := testConfig(t)
	var opened string
	opener := func(target string) (session.FrameSource, error) {
		opened = target
		return &fakeSource{info: models.SourceInfo{Target: target, Width: 640, Height: 480, FPS: 30, Seekable: true}}, nil
	}
	r, _ := newTestRouter(t, cfg, opener)

	w := postJSON(r, "/detection/start", StartRequest{VideoFilename: "traffic.mp4"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, opened, cfg.VideoDir)
	assert.Contains(t, opened, "traffic.mp4")

	var resp StartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "started", resp.Status)
	assert.Equal(t, 480, resp.Source.Height)
}

func TestStartRejectsPathTraversal(t *testing.T) {
	cfg := testConfig(t)
	opener := func(target string) (session.FrameSource, error) {
		t.Fatalf("opener should not be called, got %s", target)
		return nil, nil
	}
	r, _ := newTestRouter(t, cfg, opener)

	w := postJSON(r, "/detection/start", StartRequest{VideoFilename: "../../etc/passwd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartRejectsNonNumericDeviceID(t *testing.T) {
	cfg := testConfig(t)
	opener := func(target string) (session.FrameSource, error) {
		t.Fatalf("opener should not be called, got %s", target)
		return nil, nil
	}
	r, _ := newTestRouter(t, cfg, opener)

	// A non-numeric device id would be opened as a raw file path by the
	// session controller, escaping the video library.
	for _, id := range []string{"/etc/passwd", "../../x.mp4", "0; rm", "-1"} {
		w := postJSON(r, "/detection/start", StartRequest{DeviceID: id})
		assert.Equal(t, http.StatusBadRequest, w.Code, "device_id %q", id)
	}
}

func TestStartRequiresSource(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRouter(t, cfg, func(string) (session.FrameSource, error) { return nil, nil })

	w := postJSON(r, "/detection/start", StartRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartReportsUnopenableSource(t *testing.T) {
	cfg := testConfig(t)
	opener := func(string) (session.FrameSource, error) {
		return nil, errors.New("no such file")
	}
	r, _ := newTestRouter(t, cfg, opener)

	w := postJSON(r, "/detection/start", StartRequest{VideoFilename: "missing.mp4"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRouter(t, cfg, func(string) (session.FrameSource, error) { return nil, nil })

	for i := 0; i < 2; i++ {
		w := postJSON(r, "/detection/stop", gin.H{})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestStatsReflectsSessionState(t *testing.T) {
	cfg := testConfig(t)
	opener := func(target string) (session.FrameSource, error) {
		return &fakeSource{info: models.SourceInfo{Target: target, Width: 640, Height: 480, FPS: 30}}, nil
	}
	r, _ := newTestRouter(t, cfg, opener)

	req := httptest.NewRequest(http.MethodGet, "/detection/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.False(t, stats.IsRunning)
	assert.Nil(t, stats.Source)

	postJSON(r, "/detection/start", StartRequest{DeviceID: "0"})

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/detection/stats", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.True(t, stats.IsRunning)
	require.NotNil(t, stats.Source)
	assert.Equal(t, "0", stats.Source.Target)
}

func TestSetReportIntervalValidation(t *testing.T) {
	cfg := testConfig(t)
	r, h := newTestRouter(t, cfg, func(string) (session.FrameSource, error) { return nil, nil })

	w := postJSON(r, "/detection/report-interval", ReportIntervalRequest{Minutes: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/detection/report-interval", ReportIntervalRequest{Minutes: -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/detection/report-interval", ReportIntervalRequest{Minutes: 10})
	assert.Equal(t, http.StatusOK, w.Code)
	// The period already in progress keeps its original length.
	assert.Equal(t, cfg.ReportInterval, h.pipeline.ReportInterval())
}

func TestReportsSummary(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRouter(t, cfg, func(string) (session.FrameSource, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReportsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Summary.TotalReports)
	assert.Empty(t, resp.Reports)
}
