package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/logger"
)

const timeLayout = time.RFC3339

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusForCode maps a business error code to its HTTP status.
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrorCodeUserNotFound,
		domain.ErrorCodeAccountNotFound,
		domain.ErrorCodeTransactionNotFound:
		return http.StatusNotFound
	case domain.ErrorCodeInvalidRequest,
		domain.ErrorCodeUserAccountUnMatch,
		domain.ErrorCodeTransactionAccountUnMatch:
		return http.StatusBadRequest
	case domain.ErrorCodeAmountExceedBalance,
		domain.ErrorCodeBalanceNotEmpty,
		domain.ErrorCodeMaxAccountPerUser10,
		domain.ErrorCodeTooOldOrderToCancel,
		domain.ErrorCodeCancelMustFully,
		domain.ErrorCodeAccountAlreadyUnregistered:
		return http.StatusUnprocessableEntity
	case domain.ErrorCodeAccountTransactionLock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeMethodNotAllowed[T any](w http.ResponseWriter, r *http.Request, start time.Time) {
	response := commons.ErrorResponse[T]("method not allowed")
	writeJSON(w, http.StatusMethodNotAllowed, response)
	logResponse(r, http.StatusMethodNotAllowed, response, start)
}

func writeBadRequest[T any](w http.ResponseWriter, r *http.Request, message string, err error, start time.Time) {
	logError(r, err, nil)
	response := commons.CodedErrorResponse[T](string(domain.ErrorCodeInvalidRequest), message, err.Error())
	writeJSON(w, http.StatusBadRequest, response)
	logResponse(r, http.StatusBadRequest, response, start)
}

// writeServiceError renders err under its business code. Causes of internal
// errors are logged but never sent to the client.
func writeServiceError[T any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	code := domain.CodeOf(err)
	status := statusForCode(code)

	var details []string
	var accountErr *domain.AccountError
	if code == domain.ErrorCodeInvalidRequest && errors.As(err, &accountErr) && accountErr.Err != nil {
		details = append(details, accountErr.Err.Error())
	}

	logError(r, err, logger.Fields{
		"errorCode": code,
		"status":    status,
	})
	response := commons.CodedErrorResponse[T](string(code), code.Description(), details...)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
