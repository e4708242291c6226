package common

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// DefaultLogger 默认日志实现，按组件加前缀
type DefaultLogger struct {
	prefix string
	debug  bool
	logger *log.Logger
}

// NewLogger 创建写到 stdout 的日志器，debug 为 false 时丢弃 Debug 级别
func NewLogger(prefix string, debug bool) Logger {
	return NewLoggerTo(os.Stdout, prefix, debug)
}

// NewLoggerTo 创建写入指定输出的日志器
func NewLoggerTo(w io.Writer, prefix string, debug bool) Logger {
	return &DefaultLogger{
		prefix: prefix,
		debug:  debug,
		logger: log.New(w, "", log.LstdFlags),
	}
}

func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.log("DEBUG", msg, args...)
	}
}

func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	l.log("INFO", msg, args...)
}

func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	l.log("WARN", msg, args...)
}

func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	l.log("ERROR", msg, args...)
}

func (l *DefaultLogger) log(level string, msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	l.logger.Printf("[%s] [%s] %s", l.prefix, level, formatted)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
