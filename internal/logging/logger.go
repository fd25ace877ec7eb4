package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
)

// Setup configures the global zerolog logger: console output, level from
// config, and an optional tee into the embedded Logdy web viewer.
func Setup(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if cfg.LogdyEnabled {
		out = io.MultiWriter(out, startLogdy(cfg))
	}
	log.Logger = log.Output(out)

	if cfg.LogdyEnabled {
		url := fmt.Sprintf("http://%s:%d", cfg.LogdyHost, cfg.LogdyPort)
		log.Info().Str("url", url).Msg("Logs mirrored to Logdy UI")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
