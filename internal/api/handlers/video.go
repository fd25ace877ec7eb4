package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
)

var videoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
}

type VideoHandler struct {
	cfg *config.Config
}

func NewVideoHandler(cfg *config.Config) *VideoHandler {
	return &VideoHandler{cfg: cfg}
}

type VideoFile struct {
	Filename  string    `json:"filename"`
	SizeMB    float64   `json:"size_mb"`
	Extension string    `json:"extension"`
	CreatedAt time.Time `json:"created_at"`
}

type VideosResponse struct {
	TotalVideos int         `json:"total_videos"`
	Videos      []VideoFile `json:"videos"`
}

// ListVideos godoc
// @Summary List uploaded videos
// @Description List video files available for detection sessions
// @Tags videos
// @Produce json
// @Success 200 {object} VideosResponse
// @Failure 500 {object} map[string]string
// @Router /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	entries, err := os.ReadDir(h.cfg.VideoDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, VideosResponse{Videos: []VideoFile{}})
			return
		}
		log.Error().Err(err).Str("dir", h.cfg.VideoDir).Msg("Failed to read video directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list videos"})
		return
	}

	videos := make([]VideoFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !videoExtensions[ext] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		videos = append(videos, VideoFile{
			Filename:  entry.Name(),
			SizeMB:    float64(info.Size()) / (1024 * 1024),
			Extension: ext,
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})

	c.JSON(http.StatusOK, VideosResponse{
		TotalVideos: len(videos),
		Videos:      videos,
	})
}

// UploadVideo godoc
// @Summary Upload a video
// @Description Upload a video file to use as a detection source. The file is stored under a timestamped name.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /videos [post]
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if file.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !videoExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported video format"})
		return
	}

	if err := os.MkdirAll(h.cfg.VideoDir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", h.cfg.VideoDir).Msg("Failed to create video directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store video"})
		return
	}

	name := fmt.Sprintf("video_%s%s", time.Now().Format("20060102_150405"), ext)
	dst := filepath.Join(h.cfg.VideoDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Error().Err(err).Str("path", dst).Msg("Failed to save uploaded video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store video"})
		return
	}

	log.Info().Str("filename", name).Int64("size", file.Size).Msg("Video uploaded")

	c.JSON(http.StatusCreated, gin.H{
		"status":   "uploaded",
		"filename": name,
		"size_mb":  float64(file.Size) / (1024 * 1024),
	})
}

// DeleteVideo godoc
// @Summary Delete a video
// @Description Remove an uploaded video file
// @Tags videos
// @Produce json
// @Param filename path string true "Video filename"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /videos/{filename} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "..") || filepath.Base(filename) != filename {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.cfg.VideoDir, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		log.Error().Err(err).Str("path", path).Msg("Failed to delete video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete video"})
		return
	}

	log.Info().Str("filename", filename).Msg("Video deleted")
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "filename": filename})
}
