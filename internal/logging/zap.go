package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig selects level, encoder and destination for NewZap.
type ZapConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	OutputPath string // file path; empty means stderr
}

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	close func() error
}

// NewZap builds the production logger. The log file, when set, is opened in
// append mode and created if missing.
func NewZap(cfg ZapConfig) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     rfc3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var (
		sink    zapcore.WriteSyncer
		closeFn = func() error { return nil }
	)
	if cfg.OutputPath == "" {
		sink = zapcore.Lock(zapcore.AddSync(os.Stderr))
	} else {
		file, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(file)
		closeFn = file.Close
	}

	core := zapcore.NewCore(encoder, sink, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &ZapLogger{sugar: logger.Sugar(), close: closeFn}, nil
}

func rfc3339TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

func (z *ZapLogger) Debug(msg string, args ...any) { z.sugar.Debugf(msg, args...) }
func (z *ZapLogger) Info(msg string, args ...any)  { z.sugar.Infof(msg, args...) }
func (z *ZapLogger) Warn(msg string, args ...any)  { z.sugar.Warnf(msg, args...) }
func (z *ZapLogger) Error(msg string, args ...any) { z.sugar.Errorf(msg, args...) }

// Close flushes buffered entries and releases the log file.
func (z *ZapLogger) Close() error {
	_ = z.sugar.Sync()
	return z.close()
}

var _ Logger = (*ZapLogger)(nil)
