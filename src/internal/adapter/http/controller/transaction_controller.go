package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/adapter/http/models"
	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, middleware func(http.Handler) http.Handler) {
	useHandler := http.Handler(http.HandlerFunc(c.useBalance))
	cancelHandler := http.Handler(http.HandlerFunc(c.cancelBalance))
	queryHandler := http.Handler(http.HandlerFunc(c.queryTransaction))
	if middleware != nil {
		useHandler = middleware(useHandler)
		cancelHandler = middleware(cancelHandler)
		queryHandler = middleware(queryHandler)
	}
	mux.Handle("/transaction/use", useHandler)
	mux.Handle("/transaction/cancel", cancelHandler)
	mux.Handle("/transaction/{transactionId}", queryHandler)
}

func (c *TransactionController) useBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeMethodNotAllowed[models.UseBalanceResponse](w, r, start)
		return
	}

	var req models.UseBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest[models.UseBalanceResponse](w, r, "invalid request body", err, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.UseBalanceResponse](w, r, "validation failed", err, start)
		return
	}

	transaction, err := c.service.UseBalance(
		r.Context(),
		req.UserID,
		strings.TrimSpace(req.AccountNumber),
		req.Amount.IntPart(),
	)
	if err != nil {
		writeServiceError[models.UseBalanceResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("balance used successfully", models.UseBalanceResponse{
		AccountNumber:     transaction.AccountNumber,
		TransactionResult: string(transaction.Result),
		TransactionID:     transaction.TransactionID,
		Amount:            transaction.Amount,
		BalanceSnapshot:   transaction.BalanceSnapshot,
		TransactedAt:      formatTime(&transaction.TransactedAt),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) cancelBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeMethodNotAllowed[models.CancelBalanceResponse](w, r, start)
		return
	}

	var req models.CancelBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest[models.CancelBalanceResponse](w, r, "invalid request body", err, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.CancelBalanceResponse](w, r, "validation failed", err, start)
		return
	}

	transaction, err := c.service.CancelBalance(
		r.Context(),
		strings.TrimSpace(req.TransactionID),
		strings.TrimSpace(req.AccountNumber),
		req.Amount.IntPart(),
	)
	if err != nil {
		writeServiceError[models.CancelBalanceResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("balance cancelled successfully", models.CancelBalanceResponse{
		AccountNumber:     transaction.AccountNumber,
		TransactionResult: string(transaction.Result),
		TransactionID:     transaction.TransactionID,
		Amount:            transaction.Amount,
		BalanceSnapshot:   transaction.BalanceSnapshot,
		TransactedAt:      formatTime(&transaction.TransactedAt),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) queryTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeMethodNotAllowed[models.QueryTransactionResponse](w, r, start)
		return
	}

	transactionID := strings.TrimSpace(r.PathValue("transactionId"))
	transaction, err := c.service.QueryTransaction(r.Context(), transactionID)
	if err != nil {
		writeServiceError[models.QueryTransactionResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("transaction fetched successfully", toQueryTransactionResponse(transaction))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func toQueryTransactionResponse(transaction domain.Transaction) models.QueryTransactionResponse {
	return models.QueryTransactionResponse{
		AccountNumber:     transaction.AccountNumber,
		TransactionType:   string(transaction.Type),
		TransactionResult: string(transaction.Result),
		TransactionID:     transaction.TransactionID,
		Amount:            transaction.Amount,
		TransactedAt:      formatTime(&transaction.TransactedAt),
	}
}
