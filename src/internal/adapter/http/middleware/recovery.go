package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/logger"
)

// Recover turns a handler panic into a 500 response carrying the
// INTERNAL_SERVER_ERROR code.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("recovery middleware caught panic", fmt.Errorf("panic: %v", rec), logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"stack":  string(debug.Stack()),
			})

			code := domain.ErrorCodeInternalServerError
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(commons.CodedErrorResponse[struct{}](string(code), code.Description()))
		}()

		next.ServeHTTP(w, r)
	})
}
