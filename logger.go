package abuseguard

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogOptions control rotation of file logs
type FileLogOptions struct {
	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// NewConsoleLogger returns a human readable logger writing to stdout.
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, level)
}

// NewFileLogger returns a JSON logger writing to a rotated file. The
// returned closer releases the file.
func NewFileLogger(filename string, level zerolog.Level, opts FileLogOptions) (zerolog.Logger, io.Closer) {
	if opts.MaxSize == 0 {
		opts.MaxSize = 100
	}
	file := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}
	return newLogger(file, level), file
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "abuseguard").Logger()
}
