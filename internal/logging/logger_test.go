package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"traffic-worker-go/internal/config"
)

func TestSetupAppliesConfiguredLevel(t *testing.T) {
	Setup(&config.Config{LogLevel: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetupFallsBackToInfoOnBadLevel(t *testing.T) {
	Setup(&config.Config{LogLevel: "chatty"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
