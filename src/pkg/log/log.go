package log

import (
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Log is the service-wide logger. It is passed by value into repositories,
// usecases and controllers.
type Log struct {
	AppName  string
	LogLevel int
	Logger   *logrus.Logger
}

var logger Log

var mapOfLogLevel = map[string]int{
	"DEBUG": 1,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// InitLogger initialize logger from Viper
func InitLogger(v *viper.Viper) {
	out := io.Writer(os.Stdout)
	if v.GetBool("log.discard") {
		out = io.Discard
	}
	logger = New(v.GetString("app.name"), v.GetString("log.level"), v.GetString("log.format"), out)
}

// New builds a logger without touching the singleton.
func New(appName, level, format string, out io.Writer) Log {
	l := logrus.New()
	l.SetOutput(out)
	if format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	numeric, ok := mapOfLogLevel[level]
	if !ok {
		numeric = 1
	}
	return Log{
		AppName:  appName,
		LogLevel: numeric,
		Logger:   l,
	}
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() Log {
	return New("test", "ERROR", "json", io.Discard)
}

// GetLogger return singleton
func GetLogger() Log {
	return logger
}

func (l Log) entry(ctx, scope, meta string, skip int) *logrus.Entry {
	_, file, line, _ := runtime.Caller(skip)
	return l.Logger.WithFields(logrus.Fields{
		"service": l.AppName,
		"context": ctx,
		"scope":   scope,
		"meta":    meta,
		"file":    file,
		"line":    line,
	})
}

// Info
func (l Log) Info(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.entry(context, scope, meta, 2).Info(message)
}

// Warn
func (l Log) Warn(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 2 {
		return
	}
	l.entry(context, scope, meta, 2).Warn(message)
}

// Error records the caller and the caller's caller, since most errors are
// logged from a helper one frame below the usecase.
func (l Log) Error(context, message, scope, meta string) {
	if l.Logger == nil {
		return
	}
	_, file2, line2, _ := runtime.Caller(2)
	l.entry(context, scope, meta, 2).WithFields(logrus.Fields{
		"file2": file2,
		"line2": line2,
	}).Error(message)
}

// Slow marks operations that exceeded their latency budget.
func (l Log) Slow(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.entry(context, scope, meta, 3).Info("[SLOW] " + message)
}
