// Package logging builds the zap logger used across a run: a console (or
// JSON) sink on stderr plus an optional rotated JSON file sink.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	Level      string // debug|info|warn|error
	Format     string // console|json
	File       string // optional rotated log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Quiet      bool // stderr shows errors only
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return l, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// New builds a logger writing to stderr and, if o.File is set, to a
// lumberjack-rotated file. The returned closer flushes and closes sinks.
func New(o Options, stderr io.Writer) (*zap.Logger, func() error, error) {
	lvl, err := ParseLevel(orDefault(o.Level, "info"))
	if err != nil {
		return nil, nil, err
	}
	consoleLvl := lvl
	if o.Quiet && consoleLvl < zapcore.ErrorLevel {
		consoleLvl = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch orDefault(o.Format, FormatConsole) {
	case FormatConsole:
		cc := encCfg
		cc.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cc)
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", o.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(stderr), consoleLvl)}
	var lj *lumberjack.Logger
	if o.File != "" {
		lj = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), lvl))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closer := func() error {
		_ = logger.Sync()
		if lj != nil {
			return lj.Close()
		}
		return nil
	}
	return logger, closer, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
