package logging

import (
	"io"
	"strconv"

	"github.com/logdyhq/logdy-core/logdy"

	"traffic-worker-go/internal/config"
)

// logdySink adapts the embedded Logdy instance to io.Writer so zerolog
// output can be teed into its web UI unchanged.
type logdySink struct {
	ui logdy.Logdy
}

func (s *logdySink) Write(p []byte) (int, error) {
	s.ui.LogString(string(p))
	return len(p), nil
}

// startLogdy boots the embedded Logdy web UI on the configured host and
// port and returns a sink for mirrored log lines.
func startLogdy(cfg *config.Config) io.Writer {
	ui := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: strconv.Itoa(cfg.LogdyPort),
	}, nil)
	return &logdySink{ui: ui}
}
