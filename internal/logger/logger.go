package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelColors = map[Level]*color.Color{
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

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

// ParseLevel converts a level name such as "debug" or "WARN" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// output is shared by a Logger and every child created with With, so that
// lines from different components never interleave.
type output struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
	colored  bool
}

// Logger writes levelled lines to an io.Writer.
type Logger struct {
	out       *output
	component string
}

// Default writes INFO and above to stdout.
var Default = New(os.Stdout, LevelInfo)

// New creates a logger. Colour is only used when out is a terminal file.
func New(out io.Writer, minLevel Level) *Logger {
	_, isFile := out.(*os.File)
	return &Logger{
		out: &output{
			w:        out,
			minLevel: minLevel,
			colored:  isFile && !color.NoColor,
		},
	}
}

// With returns a logger that tags every line with component.
// The child shares the parent's writer and level.
func (l *Logger) With(component string) *Logger {
	return &Logger{out: l.out, component: component}
}

// SetLevel changes the minimum level for this logger and all its children.
func (l *Logger) SetLevel(level Level) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.minLevel = level
}

// Enabled reports whether lines at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return level >= l.out.minLevel
}

func (l *Logger) log(level Level, format string, args ...any) {
	o := l.out
	o.mu.Lock()
	defer o.mu.Unlock()

	if level < o.minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	tag := level.String()
	if o.colored {
		tag = levelColors[level].Sprint(tag)
	}

	if l.component != "" {
		_, _ = fmt.Fprintf(o.w, "[%s] [%s] [%s] %s\n", timestamp, tag, l.component, msg)
	} else {
		_, _ = fmt.Fprintf(o.w, "[%s] [%s] %s\n", timestamp, tag, msg)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// Package-level helpers write through Default.

func Debugf(format string, args ...any) { Default.Debugf(format, args...) }
func Infof(format string, args ...any)  { Default.Infof(format, args...) }
func Warnf(format string, args ...any)  { Default.Warnf(format, args...) }
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
