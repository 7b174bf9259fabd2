package logger

import (
	"encoding/json"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":           {},
	"password":      {},
	"channelkey":    {},
	"redispassword": {},
	"databasedsn":   {},
}

var base atomic.Pointer[zap.Logger]

func init() {
	l, err := newZap(zapcore.InfoLevel)
	if err != nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

// Init replaces the process logger. Level is a zap level name such as
// "debug", "info" or "error".
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}

	l, err := newZap(lvl)
	if err != nil {
		return err
	}

	base.Store(l)
	return nil
}

// Use installs an already built zap logger, mostly for tests.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

func Sync() {
	_ = base.Load().Sync()
}

func Info(message string, fields Fields) {
	base.Load().Info(message, zap.Any("fields", sanitizedFields(fields)))
}

func Error(message string, err error, fields Fields) {
	zapFields := []zap.Field{zap.Any("fields", sanitizedFields(fields))}
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	base.Load().Error(message, zapFields...)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func newZap(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func sanitizedFields(fields Fields) any {
	if fields == nil {
		fields = Fields{}
	}

	return SanitizePayload(fields)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(key), "-", ""), "_", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
