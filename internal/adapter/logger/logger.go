package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging boundary used across the service. Every
// entry carries a machine-readable action, a human message, an optional
// request ID and free-form details.
type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type zapLogger struct {
	l *zap.Logger
}

// New builds a JSON logger for the given service name, writing to stdout.
func New(service string) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.MessageKey = "message"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	)

	hostname, _ := os.Hostname()

	return &zapLogger{
		l: zap.New(core).With(
			zap.String("service", service),
			zap.String("hostname", hostname),
		),
	}
}

func (z *zapLogger) Info(action, message, requestID string, details map[string]interface{}) {
	z.l.Info(message, fields(action, requestID, details)...)
}

func (z *zapLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	z.l.Debug(message, fields(action, requestID, details)...)
}

func (z *zapLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	fs := fields(action, requestID, details)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	z.l.Error(message, fs...)
}

func fields(action, requestID string, details map[string]interface{}) []zap.Field {
	fs := []zap.Field{zap.String("action", action)}
	if requestID != "" {
		fs = append(fs, zap.String("request_id", requestID))
	}
	if len(details) > 0 {
		fs = append(fs, zap.Any("details", details))
	}
	return fs
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger { return &zapLogger{l: zap.NewNop()} }
