package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/liveicon/liveicon/internal/models"
)

// LogOptions configures NewLogger.
type LogOptions struct {
	Verbose bool
	// File is the rotating JSON log file. Empty disables file logging.
	File    string
	Logging models.LoggingConfig
	// Console defaults to os.Stderr.
	Console io.Writer
}

// NewLogger builds the process logger: human-readable console output plus an
// optional rotating JSON file. The returned closer releases the file.
func NewLogger(opts LogOptions) (zerolog.Logger, io.Closer) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(console),
	}}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err == nil {
			file := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    opts.Logging.MaxSizeMB,
				MaxBackups: opts.Logging.MaxBackups,
				MaxAge:     opts.Logging.MaxAgeDays,
			}
			writers = append(writers, file)
			closer = file
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
