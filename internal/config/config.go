package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Detector (Triton inference server hosting the tracking model)
	DetectorAddr       string
	DetectorModel      string
	DetectorConfidence float64
	DetectorTimeout    time.Duration

	// NATS (report fan-out to remote consumers)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	ReportsSubject     string

	// Counting
	CountingLinePosition float64 // relative row of the counting line (0..1)
	HistorySize          int     // positions kept per track
	CrossingSampleOffset int     // samples back for the crossing reference
	TrackMaxIdle         int     // frames without update before a track is pruned (0 = never)

	// Reporting
	ReportInterval time.Duration
	ReportDir      string

	// Streaming
	StreamInterval time.Duration // fixed sleep between broadcast iterations
	JPEGQuality    int

	// Video library (uploaded files the session controller can open)
	VideoDir      string
	MaxUploadSize int64 // bytes

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "worker-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Detector
		DetectorAddr:       getEnv("DETECTOR_ADDR", "localhost:8001"),
		DetectorModel:      getEnv("DETECTOR_MODEL", "vehicle_tracker"),
		DetectorConfidence: getEnvFloat("DETECTOR_CONFIDENCE", 0.5),
		DetectorTimeout:    getEnvDuration("DETECTOR_TIMEOUT", 30*time.Second),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		ReportsSubject:     getEnv("REPORTS_SUBJECT", "traffic.reports"),

		// Counting
		CountingLinePosition: getEnvFloat("COUNTING_LINE_POSITION", 0.5),
		HistorySize:          getEnvInt("HISTORY_SIZE", 30),
		CrossingSampleOffset: getEnvInt("CROSSING_SAMPLE_OFFSET", 10),
		TrackMaxIdle:         getEnvInt("TRACK_MAX_IDLE", 300),

		// Reporting
		ReportInterval: getEnvDuration("REPORT_INTERVAL", 300*time.Second),
		ReportDir:      getEnv("REPORT_DIR", "reports"),

		// Streaming
		StreamInterval: getEnvDuration("STREAM_INTERVAL", 33*time.Millisecond),
		JPEGQuality:    getEnvInt("JPEG_QUALITY", 90),

		// Video library
		VideoDir:      getEnv("VIDEO_DIR", "videos"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 500*1024*1024), // 500MB

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate rejects configurations the counting engine cannot run safely
// with. A sub-second report interval would make the per-minute rate math
// meaningless, so it is refused here rather than guarded downstream.
func (c *Config) Validate() error {
	if c.ReportInterval < time.Second {
		return fmt.Errorf("REPORT_INTERVAL must be at least 1s, got %s", c.ReportInterval)
	}
	if c.CountingLinePosition <= 0 || c.CountingLinePosition >= 1 {
		return fmt.Errorf("COUNTING_LINE_POSITION must be in (0, 1), got %g", c.CountingLinePosition)
	}
	if c.HistorySize < 2 {
		return fmt.Errorf("HISTORY_SIZE must be at least 2, got %d", c.HistorySize)
	}
	if c.CrossingSampleOffset < 1 || c.CrossingSampleOffset >= c.HistorySize {
		return fmt.Errorf("CROSSING_SAMPLE_OFFSET must be in [1, HISTORY_SIZE), got %d", c.CrossingSampleOffset)
	}
	if c.StreamInterval <= 0 {
		return fmt.Errorf("STREAM_INTERVAL must be positive, got %s", c.StreamInterval)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be in [1, 100], got %d", c.JPEGQuality)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
