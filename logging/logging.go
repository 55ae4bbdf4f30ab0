// Package logging builds the zap logger shared by the TUI and the CLI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"readinghall-dashboard/config"
)

// New returns a production JSON logger, or a console logger in development.
// With toFile the output goes to cfg.LogFile (or config.DefaultLogFile) so
// that nothing is written over the alternate screen.
func New(cfg *config.Config, toFile bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	out := "stderr"
	if cfg.LogFile != "" {
		out = cfg.LogFile
	} else if toFile {
		out = config.DefaultLogFile()
	}
	if out != "stderr" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}
	zcfg.OutputPaths = []string{out}
	zcfg.ErrorOutputPaths = []string{out}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return logger.With(zap.String("env", cfg.AppEnv)), nil
}
