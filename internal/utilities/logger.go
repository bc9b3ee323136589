package utilities

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal"

	"github.com/rs/zerolog"
)

type logger struct {
	zl     zerolog.Logger
	output io.Writer
	config struct {
		Level  Level
		Pretty bool
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	default:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	case Trace:
		return zerolog.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a logger writing to stdout at the error level until
// it's configured; an io.Writer parameter replaces stdout
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	l := &logger{output: os.Stdout}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			l.output = p
		}
	}
	l.config.Level = Error
	l.build()
	return l
}

func (l *logger) build() {
	output := l.output
	if l.config.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}
	l.zl = zerolog.New(output).
		Level(l.config.Level.zerolog()).
		With().
		Timestamp().
		Logger()
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	if pretty, ok := envs["LOG_PRETTY"]; ok {
		l.config.Pretty, _ = strconv.ParseBool(pretty)
	}
	l.build()
	return nil
}

func (l *logger) log(ctx context.Context, event *zerolog.Event, format string, v ...any) {
	if ctx != nil {
		if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
			event = event.Str("correlation_id", correlationId)
		}
	}
	event.Msg(strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.log(ctx, l.zl.Error(), format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.log(ctx, l.zl.Info(), format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.log(ctx, l.zl.Debug(), format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.log(ctx, l.zl.Trace(), format, v...)
}

type nullLogger struct{}

// NewNullLogger returns a logger that discards everything, it's what
// components fall back to when no logger is provided
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Error(context.Context, string, ...any) {}
func (nullLogger) Info(context.Context, string, ...any)  {}
func (nullLogger) Debug(context.Context, string, ...any) {}
func (nullLogger) Trace(context.Context, string, ...any) {}
