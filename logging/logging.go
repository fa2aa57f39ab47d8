// Package logging configures zerolog for the binary
// The interactive view owns the terminal, so logs go to a file there
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/constants"
)

const (
	// DefaultFileName is used when Options.File is empty
	DefaultFileName = constants.AppName + ".log"

	// DefaultMaxSize triggers rotation of an existing log file at startup
	DefaultMaxSize = constants.LogMaxSize

	rotateTimeFormat = "20060102_150405"
)

// Options selects where and what to log
type Options struct {
	Level   string // trace, debug, info, warn, error; anything else is info
	Dir     string // Log file directory; empty disables the file
	File    string
	Console io.Writer // Human-readable output, e.g. os.Stderr in export mode; nil disables
	MaxSize int64     // <= 0 selects DefaultMaxSize

	now func() time.Time
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the root logger
// The returned Closer closes the log file and must be called on exit
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.Dir != "" {
		f, err := openLogFile(opts)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writers = append(writers, f)
		closer = f
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	log := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

// openLogFile creates the directory, rotates an oversized previous log and opens for append
func openLogFile(opts Options) (*os.File, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := opts.File
	if name == "" {
		name = DefaultFileName
	}
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	now := opts.now
	if now == nil {
		now = time.Now
	}

	path := filepath.Join(opts.Dir, name)
	if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
		ext := filepath.Ext(name)
		rotated := filepath.Join(opts.Dir, fmt.Sprintf("%s.%s%s", strings.TrimSuffix(name, ext), now().Format(rotateTimeFormat), ext))
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate log file: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
