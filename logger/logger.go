package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColors = map[Level]string{
	DEBUG: colorGray,
	INFO:  colorReset,
	WARN:  colorYellow,
	ERROR: colorRed,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

type sink struct {
	out     io.Writer
	colored bool
	loggers map[Level]*log.Logger
}

func newSink(out io.Writer, colored bool) *sink {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	s := &sink{out: out, colored: colored, loggers: make(map[Level]*log.Logger, len(levelNames))}
	for level, name := range levelNames {
		prefix := fmt.Sprintf("[%s] ", name)
		if len(name) == 4 {
			prefix += " "
		}
		if colored {
			prefix = levelColors[level] + prefix + colorReset
		}
		s.loggers[level] = log.New(out, prefix, flags)
	}
	return s
}

type Logger struct {
	sinks    []*sink
	file     *os.File
	minLevel Level
}

var (
	mu            sync.RWMutex
	defaultLogger = &Logger{sinks: []*sink{newSink(os.Stdout, true)}, minLevel: INFO}
)

// Init replaces the process logger. An empty filename disables file output;
// console=false disables stdout. At least one destination is required.
func Init(filename string, console bool, level Level) error {
	next := &Logger{minLevel: level}

	if filename != "" {
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		next.file = file
		next.sinks = append(next.sinks, newSink(file, false))
	}
	if console {
		next.sinks = append(next.sinks, newSink(os.Stdout, true))
	}
	if len(next.sinks) == 0 {
		return fmt.Errorf("no output destination specified")
	}

	swap(next)
	return nil
}

// SetOutput sends uncolored output to w only. Used by tests to capture logs.
func SetOutput(w io.Writer, level Level) {
	swap(&Logger{sinks: []*sink{newSink(w, false)}, minLevel: level})
}

func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.minLevel = level
}

func swap(next *Logger) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil && defaultLogger.file != nil {
		defaultLogger.file.Close()
	}
	defaultLogger = next
}

// Close closes the log file if one is open and falls back to the console.
func Close() {
	swap(&Logger{sinks: []*sink{newSink(os.Stdout, true)}, minLevel: INFO})
}

func output(level Level, msg string) {
	mu.RLock()
	defer mu.RUnlock()
	if level < defaultLogger.minLevel {
		return
	}
	for _, s := range defaultLogger.sinks {
		// depth 3: output -> Infof -> caller
		s.loggers[level].Output(3, msg)
	}
}

func Debug(v ...interface{})                 { output(DEBUG, fmt.Sprint(v...)) }
func Debugf(format string, v ...interface{}) { output(DEBUG, fmt.Sprintf(format, v...)) }
func Info(v ...interface{})                  { output(INFO, fmt.Sprint(v...)) }
func Infof(format string, v ...interface{})  { output(INFO, fmt.Sprintf(format, v...)) }
func Warn(v ...interface{})                  { output(WARN, fmt.Sprint(v...)) }
func Warnf(format string, v ...interface{})  { output(WARN, fmt.Sprintf(format, v...)) }
func Error(v ...interface{})                 { output(ERROR, fmt.Sprint(v...)) }
func Errorf(format string, v ...interface{}) { output(ERROR, fmt.Sprintf(format, v...)) }

// Fatalf logs at ERROR and exits the process.
func Fatalf(format string, v ...interface{}) {
	output(ERROR, fmt.Sprintf(format, v...))
	os.Exit(1)
}
