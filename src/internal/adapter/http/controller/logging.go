package controller

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/api-sage/account-balance-service/src/internal/logger"
)

// requestFields identifies r in every controller log line. traceId is set
// only when the request context carries a valid span.
func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"remoteAddr": r.RemoteAddr,
	}
	if r.URL.RawQuery != "" {
		fields["query"] = r.URL.RawQuery
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		fields["traceId"] = sc.TraceID().String()
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	if payload != nil {
		fields["payload"] = logger.SanitizePayload(payload)
	}
	logger.Info("account balance request", fields)
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	fields["response"] = logger.SanitizePayload(payload)
	logger.Info("account balance response", fields)
}

// logError keeps request fields when extra reuses a key.
func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	for key, value := range extra {
		if _, taken := fields[key]; !taken {
			fields[key] = value
		}
	}
	logger.Error("account balance handler error", err, fields)
}
