package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"console debug", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"json warn", Config{Level: "warn", Format: "json"}, zapcore.WarnLevel, false},
		{"unknown level falls back", Config{Level: "loud", Format: "json"}, zapcore.InfoLevel, false},
		{"defaults", DefaultConfig(), zapcore.InfoLevel, false},
		{"bad format", Config{Level: "info", Format: "xml"}, zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
