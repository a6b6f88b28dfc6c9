package logger

import (
	"log"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	NoticeLevel
	ErrorLevel
)

type Chain int

const (
	None = iota
	Sol
	Eth
	Pol
	Arb
	Base
)

var chainIDMap = map[int]Chain{
	501:   Sol,
	1:     Eth,
	137:   Pol,
	42161: Arb,
	8453:  Base,
}

var chainPrefixes = map[Chain]string{
	None: "",
	Sol:  "[SOL]  ",
	Eth:  "[ETH]  ",
	Pol:  "[POL]  ",
	Arb:  "[ARB]  ",
	Base: "[BASE] ",
}

var colors = map[Chain]color.Attribute{
	None: color.FgWhite,
	Sol:  color.FgMagenta,
	Eth:  color.FgHiGreen,
	Pol:  color.FgHiMagenta,
	Arb:  color.FgHiBlue,
	Base: color.FgBlue,
}

// Logger is a simple interface for logging messages.
type Logger interface {
	// Info logs an informational message.
	Info(format string, args ...interface{})
	InfoWithChain(chainID int, format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})
	ErrorWithChain(chainID int, format string, args ...interface{})

	// Debug logs a debug message.
	Debug(format string, args ...interface{})
	DebugWithChain(chainID int, format string, args ...interface{})

	// Notice logs a notice message.
	Notice(format string, args ...interface{})
	NoticeWithChain(chainID int, format string, args ...interface{})
}

// EmptyLogger is a simple implementation of the Logger interface that does nothing.
type EmptyLogger struct{}

var _ Logger = (*EmptyLogger)(nil)

func (l *EmptyLogger) Info(_ string, _ ...interface{})                   {}
func (l *EmptyLogger) InfoWithChain(_ int, _ string, _ ...interface{})   {}
func (l *EmptyLogger) Error(_ string, _ ...interface{})                  {}
func (l *EmptyLogger) ErrorWithChain(_ int, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Debug(_ string, _ ...interface{})                  {}
func (l *EmptyLogger) DebugWithChain(_ int, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Notice(_ string, _ ...interface{})                 {}
func (l *EmptyLogger) NoticeWithChain(_ int, _ string, _ ...interface{}) {}

// StdLogger is a standard implementation of the Logger interface that logs messages to the console.
type StdLogger struct {
	enableColoring bool
	level          Level
	mu             sync.Mutex
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(enableColoring bool, level Level) *StdLogger {
	return &StdLogger{
		enableColoring: enableColoring,
		level:          level,
	}
}

// formatMessage formats the log message with the appropriate log level, chain prefix, and coloring if enabled.
func (l *StdLogger) formatMessage(level Level, chain Chain, format string) string {
	chainPrefix := chainPrefixes[chain]
	if l.enableColoring {
		chainPrefix = color.New(colors[chain]).Sprint(chainPrefix)
	}

	var levelStr string
	switch level {
	case DebugLevel:
		levelStr = "[DEBUG]  "
	case InfoLevel:
		levelStr = "[INFO]   "
	case NoticeLevel:
		levelStr = "[NOTICE] "
	case ErrorLevel:
		levelStr = "[ERROR]  "
	}

	return levelStr + chainPrefix + format
}

func (l *StdLogger) logf(level Level, chainID int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level > level {
		return
	}
	log.Printf(l.formatMessage(level, chainIDMap[chainID], format), args...)
}

func (l *StdLogger) Info(format string, args ...interface{}) {
	l.logf(InfoLevel, 0, format, args...)
}

func (l *StdLogger) InfoWithChain(chainID int, format string, args ...interface{}) {
	l.logf(InfoLevel, chainID, format, args...)
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.logf(ErrorLevel, 0, format, args...)
}

func (l *StdLogger) ErrorWithChain(chainID int, format string, args ...interface{}) {
	l.logf(ErrorLevel, chainID, format, args...)
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.logf(DebugLevel, 0, format, args...)
}

func (l *StdLogger) DebugWithChain(chainID int, format string, args ...interface{}) {
	l.logf(DebugLevel, chainID, format, args...)
}

func (l *StdLogger) Notice(format string, args ...interface{}) {
	l.logf(NoticeLevel, 0, format, args...)
}

func (l *StdLogger) NoticeWithChain(chainID int, format string, args ...interface{}) {
	l.logf(NoticeLevel, chainID, format, args...)
}
