package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BetterStackLogStreamer wraps zap with the fields every log line in this
// service carries: a per-request trace id, the emitting layer and the
// environment. Lines go to stdout as JSON; the log shipper picks them up
// from there.
type BetterStackLogStreamer struct {
	zl          *zap.Logger
	service     string
	environment string
}

func NewBetterStackLogStreamer(service, environment string) (*BetterStackLogStreamer, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &BetterStackLogStreamer{
		zl:          zl.With(zap.String("service", service), zap.String("environment", environment)),
		service:     service,
		environment: environment,
	}, nil
}

// Log emits one structured line. source names the layer ("SERVICE",
// "REPOSITORY", "HANDLER"); err, when non-nil, is attached as the error field.
func (s *BetterStackLogStreamer) Log(level zapcore.Level, traceID string, message string, fields map[string]any, source string, err error) {
	zfields := make([]zap.Field, 0, len(fields)+3)
	zfields = append(zfields, zap.String("traceId", traceID), zap.String("source", source))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	if err != nil {
		zfields = append(zfields, zap.Error(err))
	}

	switch level {
	case zapcore.DebugLevel:
		s.zl.Debug(message, zfields...)
	case zapcore.WarnLevel:
		s.zl.Warn(message, zfields...)
	case zapcore.ErrorLevel:
		s.zl.Error(message, zfields...)
	case zapcore.FatalLevel:
		s.zl.Fatal(message, zfields...)
	default:
		s.zl.Info(message, zfields...)
	}
}

// Sync flushes buffered log entries. Call on shutdown.
func (s *BetterStackLogStreamer) Sync() error {
	return s.zl.Sync()
}
