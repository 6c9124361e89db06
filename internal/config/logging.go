package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ParseLogLevel parses a log level name. Unknown names select error.
func ParseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return zerolog.Disabled
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger is a zerolog.Logger writing JSON lines to a file. The embedded
// logger is handed to the session, engine and file guard.
type Logger struct {
	zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewLogger creates a logger at level writing to filePath. Level off or an
// empty path yield a logger that discards everything without touching disk.
func NewLogger(level zerolog.Level, filePath string) (*Logger, error) {
	if level == zerolog.Disabled || filePath == "" {
		return NullLogger(), nil
	}

	filePath = ExpandPath(filePath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: newZerolog(f, level),
		file:   f,
	}, nil
}

// NewWriterLogger creates a logger writing to w.
func NewWriterLogger(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{Logger: newZerolog(w, level)}
}

func newZerolog(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("role", "cnwallet").Logger()
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
