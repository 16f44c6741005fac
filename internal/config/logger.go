package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// LoggingConfig selects the log level and, optionally, a log file.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // none, normal or debug
	File  string `mapstructure:"file"`
}

// Prepare returns the program logger. When a file is configured all output
// goes there; otherwise it goes to stderr, unless console is false (the pager
// owns the terminal). The returned function flushes and closes the log.
func (conf *LoggingConfig) Prepare(console bool) (*zap.Logger, func(), error) {
	var level zapcore.Level
	switch conf.Level {
	case "normal":
		level = zapcore.InfoLevel
	case "debug":
		level = zapcore.DebugLevel
	default:
		return zap.NewNop(), func() {}, nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil

	var (
		sink    zapcore.WriteSyncer
		cleanup = func() {}
	)
	switch {
	case conf.File != "":
		ws, closeFn, err := zap.Open(conf.File)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to access log destination (%s): %w", conf.File, err)
		}
		sink, cleanup = ws, closeFn
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	case console:
		sink = zapcore.Lock(os.Stderr)
		if term.IsTerminal(int(os.Stderr.Fd())) {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
			ec.TimeKey = zapcore.OmitKey
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	default:
		return zap.NewNop(), func() {}, nil
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), sink, zap.NewAtomicLevelAt(level))
	log := zap.New(core).Named(appName)
	return log, func() {
		_ = log.Sync()
		cleanup()
	}, nil
}
