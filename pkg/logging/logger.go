package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Level controls how much is written to the console. The log file always
// receives every entry.
type Level int

const (
	// LevelQuiet shows only warnings and errors
	LevelQuiet Level = iota
	// LevelNormal shows progress, successes, warnings and errors (default)
	LevelNormal
	// LevelVerbose adds detail about each scenario
	LevelVerbose
	// LevelDebug shows everything
	LevelDebug
)

// ParseLevel maps a verbosity name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "quiet":
		return LevelQuiet, nil
	case "", "normal":
		return LevelNormal, nil
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

// Options configures a root logger.
type Options struct {
	// Dir receives <run-id>-acceptance.log. Empty disables the file sink.
	Dir string

	// Console receives colored, level-filtered output (default: os.Stdout)
	Console io.Writer

	// Level filters console output
	Level Level
}

// Logger writes component-tagged entries to the console and the run log
// file. Loggers derived with With share the same sinks.
type Logger struct {
	component string
	sink      *sink
}

type sink struct {
	mu        sync.Mutex
	level     Level
	console   io.Writer
	file      *os.File
	fileLog   *log.Logger
	logPath   string
	runID     string
	styles    levelStyles
	closeOnce sync.Once
}

type levelStyles struct {
	debug   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

func newLevelStyles(w io.Writer) levelStyles {
	r := lipgloss.NewRenderer(w)
	return levelStyles{
		debug:   r.NewStyle().Foreground(lipgloss.Color("8")),
		info:    r.NewStyle().Foreground(lipgloss.Color("6")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

var (
	// Global run ID shared by every logger in this process
	runID     string
	runIDOnce sync.Once
)

// getRunID returns or creates the run ID for this execution
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// GetRunID returns the current run ID.
func GetRunID() string {
	return getRunID()
}

// New creates a root logger for component.
//
// If the log file cannot be created the logger still writes to the console
// and the error is returned alongside it so the caller can warn.
func New(component string, opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	s := &sink{
		level:   opts.Level,
		console: console,
		runID:   getRunID(),
		styles:  newLevelStyles(console),
	}
	l := &Logger{component: component, sink: s}

	if opts.Dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(opts.Dir, 0750); err != nil {
		return l, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(opts.Dir, fmt.Sprintf("%s-acceptance.log", s.runID))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return l, fmt.Errorf("failed to open log file: %w", err)
	}

	s.file = file
	s.fileLog = log.New(file, "", 0)
	s.logPath = logPath
	return l, nil
}

// Discard returns a logger that writes nowhere. Useful in tests.
func Discard() *Logger {
	l, _ := New("discard", Options{Console: io.Discard, Level: LevelQuiet})
	return l
}

// With returns a logger for another component sharing this logger's sinks.
func (l *Logger) With(component string) *Logger {
	return &Logger{component: component, sink: l.sink}
}

func (l *Logger) write(level Level, label string, style lipgloss.Style, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.fileLog != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05.000")
		l.sink.fileLog.Printf("[%s] [%s] [%s] %s", timestamp, l.component, label, message)
	}

	if level <= l.sink.level {
		fmt.Fprintf(l.sink.console, "%s %s %s\n",
			style.Render("["+label+"]"),
			l.sink.styles.dim.Render(l.component),
			message)
	}
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, "DEBUG", l.sink.styles.debug, format, v...)
}

// Verbosef logs detail shown at verbose level and above
func (l *Logger) Verbosef(format string, v ...interface{}) {
	l.write(LevelVerbose, "INFO", l.sink.styles.info, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelNormal, "INFO", l.sink.styles.info, format, v...)
}

// Successf logs a completed step
func (l *Logger) Successf(format string, v ...interface{}) {
	l.write(LevelNormal, "SUCCESS", l.sink.styles.success, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelQuiet, "WARNING", l.sink.styles.warn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelQuiet, "ERROR", l.sink.styles.err, format, v...)
}

// RunID returns the run ID shared by all loggers
func (l *Logger) RunID() string {
	return l.sink.runID
}

// LogPath returns the path to the log file, or "" when file logging is off
func (l *Logger) LogPath() string {
	return l.sink.logPath
}

// Close closes the log file. Safe to call multiple times and from any
// logger sharing the sink.
func (l *Logger) Close() error {
	var err error
	l.sink.closeOnce.Do(func() {
		l.sink.mu.Lock()
		defer l.sink.mu.Unlock()
		if l.sink.file != nil {
			err = l.sink.file.Close()
			l.sink.fileLog = nil
		}
	})
	return err
}
