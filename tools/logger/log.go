package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger 按级别过滤的 printf 风格日志，底层为 zerolog
type Logger struct {
	zl zerolog.Logger
}

// parseLevel 未知级别按 info 处理
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		// fatal 消息以 error 级别写出，阈值需要放在 error
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger 输出到控制台
func NewLogger(level string) *Logger {
	return NewLoggerWithWriter(level, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05.000"})
}

// NewLoggerWithWriter 输出到 w，非 ConsoleWriter 时每条日志一行 JSON
func NewLoggerWithWriter(level string, w io.Writer) *Logger {
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Fatal 不退出进程，以 error 级别写出并标记 severity=FATAL
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.zl.Error().Str("severity", "FATAL").Msgf(format, args...)
}
