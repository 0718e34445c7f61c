package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/SaiSmaran29/MediFlow/internal/config"
)

// Logger wraps a zerolog.Logger writing to .mediflow/logs/mediflow.log so
// users can inspect failures after the terminal session closes. The TUI
// owns the screen, so nothing is ever written to stderr.
type Logger struct {
	zerolog.Logger

	file *os.File
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.MediflowDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "mediflow.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	zl := zerolog.New(f).With().Timestamp().Logger()
	return &Logger{Logger: zl, file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single formatted line at info level. Kept for call
// sites that just want fmt-style logging.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Info().Msgf(format, args...)
}
