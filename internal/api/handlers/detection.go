package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/pipeline"
	"traffic-worker-go/internal/services/session"
)

type DetectionHandler struct {
	cfg      *config.Config
	session  *session.Controller
	pipeline *pipeline.Service
}

func NewDetectionHandler(cfg *config.Config, sess *session.Controller, pipe *pipeline.Service) *DetectionHandler {
	return &DetectionHandler{
		cfg:      cfg,
		session:  sess,
		pipeline: pipe,
	}
}

type StartRequest struct {
	VideoFilename string `json:"video_filename" example:"traffic.mp4"`
	DeviceID      string `json:"device_id" example:"0"`
}

type StartResponse struct {
	Status string            `json:"status" example:"started"`
	Source models.SourceInfo `json:"source"`
}

type StatsResponse struct {
	IsRunning   bool                `json:"is_running"`
	Counts      models.VehicleCount `json:"counts"`
	Source      *models.SourceInfo  `json:"source,omitempty"`
	LastReports []models.Report     `json:"last_reports"`
}

type ReportIntervalRequest struct {
	Minutes int `json:"minutes" example:"5"`
}

type ReportsResponse struct {
	Reports []models.Report `json:"reports"`
	Summary ReportsSummary  `json:"summary"`
}

type ReportsSummary struct {
	TotalReports  int `json:"total_reports"`
	TotalVehicles int `json:"total_vehicles_all_time"`
}

// resolveTarget turns a start request into something the session controller
// can open: a capture device index, or a filename inside the video
// directory. Anything else is rejected; the session controller opens
// non-numeric targets as file paths, so an unchecked device_id would
// escape the video library.
func (h *DetectionHandler) resolveTarget(req StartRequest) (string, bool) {
	if req.DeviceID != "" {
		if device, err := strconv.Atoi(req.DeviceID); err != nil || device < 0 {
			return "", false
		}
		return req.DeviceID, true
	}

	name := filepath.Base(req.VideoFilename)
	if name == "" || name == "." || strings.Contains(req.VideoFilename, "..") {
		return "", false
	}
	return filepath.Join(h.cfg.VideoDir, name), true
}

// Start godoc
// @Summary Start a detection session
// @Description Open a video file or capture device and start counting vehicles
// @Tags detection
// @Accept json
// @Produce json
// @Param request body StartRequest true "Video source"
// @Success 200 {object} StartResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /detection/start [post]
func (h *DetectionHandler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.VideoFilename == "" && req.DeviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_filename or device_id is required"})
		return
	}

	target, ok := h.resolveTarget(req)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video source"})
		return
	}

	info, err := h.session.Start(target)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("Failed to start detection session")
		c.JSON(http.StatusNotFound, gin.H{"error": "could not open video source"})
		return
	}

	h.pipeline.ConfigureLine(info.Height)
	h.pipeline.Reset(time.Now())

	log.Info().
		Str("target", target).
		Int("width", info.Width).
		Int("height", info.Height).
		Msg("Detection session started")

	c.JSON(http.StatusOK, StartResponse{
		Status: "started",
		Source: info,
	})
}

// Stop godoc
// @Summary Stop the detection session
// @Description Release the video source. Safe to call when no session is running.
// @Tags detection
// @Produce json
// @Success 200 {object} map[string]string
// @Router /detection/stop [post]
func (h *DetectionHandler) Stop(c *gin.Context) {
	h.session.Stop()
	log.Info().Msg("Detection session stopped")
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// Stats godoc
// @Summary Detection statistics
// @Description Current counts, session state and the most recent reports
// @Tags detection
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /detection/stats [get]
func (h *DetectionHandler) Stats(c *gin.Context) {
	resp := StatsResponse{
		IsRunning:   h.session.Running(),
		Counts:      h.pipeline.Counts(),
		LastReports: h.pipeline.Reports(5),
	}
	if info, ok := h.session.Info(); ok {
		resp.Source = &info
	}
	c.JSON(http.StatusOK, resp)
}

// SetReportInterval godoc
// @Summary Change the reporting interval
// @Description Set how often counting reports are generated, in minutes. Takes effect for the next period.
// @Tags detection
// @Accept json
// @Produce json
// @Param request body ReportIntervalRequest true "Interval in minutes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /detection/report-interval [post]
func (h *DetectionHandler) SetReportInterval(c *gin.Context) {
	var req ReportIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Minutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minutes must be positive"})
		return
	}

	if err := h.pipeline.SetReportInterval(time.Duration(req.Minutes) * time.Minute); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Info().Int("minutes", req.Minutes).Msg("Report interval updated")
	c.JSON(http.StatusOK, gin.H{"status": "updated", "minutes": req.Minutes})
}

// Reports godoc
// @Summary List generated reports
// @Description All reports generated since startup, oldest first, with a summary
// @Tags reports
// @Produce json
// @Success 200 {object} ReportsResponse
// @Router /reports [get]
func (h *DetectionHandler) Reports(c *gin.Context) {
	reports := h.pipeline.Reports(0)

	total := 0
	for _, r := range reports {
		total += r.VehicleCount.Total
	}

	c.JSON(http.StatusOK, ReportsResponse{
		Reports: reports,
		Summary: ReportsSummary{
			TotalReports:  len(reports),
			TotalVehicles: total,
		},
	})
}
