// Package log provides the small leveled logger used throughout gmdata.
//
// It mirrors the shape of the "github.com/saferwall/pe/log" helper the
// teacher package builds its *File around: a minimal Logger interface,
// a level filter, and a Helper with printf-style convenience methods.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a log severity.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to LevelInfo on no match.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the base logging sink. keyvals is an alternating key/value list.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes "LEVEL key=value ..." lines to an io.Writer.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes plain text lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := fmt.Sprintf("%s %-5s", time.Now().Format("15:04:05.000"), level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		buf += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	_, err := fmt.Fprintln(s.w, buf)
	return err
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	Logger
	level Level
}

// Option configures a filter.
type Option func(*filter)

// FilterLevel sets the minimum level a filter passes through.
func FilterLevel(level Level) Option {
	return func(f *filter) { f.level = level }
}

// NewFilter returns logger wrapped with the given options applied.
func NewFilter(logger Logger, opts ...Option) Logger {
	f := &filter{Logger: logger, level: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.Logger.Log(level, keyvals...)
}

// Helper wraps a Logger with printf-style convenience methods.
type Helper struct {
	logger Logger
}

// NewHelper returns a Helper backed by logger.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

// Default returns a Helper writing to stderr, filtered by the
// GMDATA_LOG_LEVEL environment variable (default: info).
func Default() *Helper {
	level := ParseLevel(os.Getenv("GMDATA_LOG_LEVEL"))
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(level)))
}
