// Package logging builds the zap logger shared by the backend client and the UI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bizdesk/internal/config"
)

// New returns a console logger at warn level, or debug level when cfg.Debug is set.
// Output goes to stderr unless cfg.LogToFile is set, in which case it is
// appended to cfg.LogPath().
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.LogToFile {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config dir: %w", err)
		}
		zc.OutputPaths = []string{cfg.LogPath()}
		zc.ErrorOutputPaths = []string{cfg.LogPath()}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named(config.AppName), nil
}
