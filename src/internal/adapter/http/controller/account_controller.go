package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/adapter/http/models"
	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, middleware func(http.Handler) http.Handler) {
	accountsHandler := http.Handler(http.HandlerFunc(c.accounts))
	accountHandler := http.Handler(http.HandlerFunc(c.getAccount))
	if middleware != nil {
		accountsHandler = middleware(accountsHandler)
		accountHandler = middleware(accountHandler)
	}
	mux.Handle("/account", accountsHandler)
	mux.Handle("/account/{id}", accountHandler)
}

func (c *AccountController) accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.createAccount(w, r)
	case http.MethodDelete:
		c.deleteAccount(w, r)
	case http.MethodGet:
		c.getAccountsByUser(w, r)
	default:
		start := time.Now()
		logRequest(r, nil)
		writeMethodNotAllowed[models.GetAccountResponse](w, r, start)
	}
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest[models.CreateAccountResponse](w, r, "invalid request body", err, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.CreateAccountResponse](w, r, "validation failed", err, start)
		return
	}

	account, err := c.service.CreateAccount(r.Context(), req.UserID, req.InitialBalance.IntPart())
	if err != nil {
		writeServiceError[models.CreateAccountResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("account created successfully", models.CreateAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		RegisteredAt:  formatTime(&account.RegisteredAt),
	})
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest[models.DeleteAccountResponse](w, r, "invalid request body", err, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeBadRequest[models.DeleteAccountResponse](w, r, "validation failed", err, start)
		return
	}

	account, err := c.service.DeleteAccount(r.Context(), req.UserID, strings.TrimSpace(req.AccountNumber))
	if err != nil {
		writeServiceError[models.DeleteAccountResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("account deleted successfully", models.DeleteAccountResponse{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		UnregisteredAt: formatTime(account.UnregisteredAt),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) getAccountsByUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	userID, err := parseID(r.URL.Query().Get("user_id"), "user_id")
	if err != nil {
		writeBadRequest[[]models.AccountInfo](w, r, "validation failed", err, start)
		return
	}

	accounts, err := c.service.GetAccountsByUserID(r.Context(), userID)
	if err != nil {
		writeServiceError[[]models.AccountInfo](w, r, err, start)
		return
	}

	infos := make([]models.AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		infos = append(infos, models.AccountInfo{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
		})
	}

	response := commons.SuccessResponse("accounts fetched successfully", infos)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeMethodNotAllowed[models.GetAccountResponse](w, r, start)
		return
	}

	id, err := parseID(r.PathValue("id"), "id")
	if err != nil {
		writeBadRequest[models.GetAccountResponse](w, r, "validation failed", err, start)
		return
	}

	account, err := c.service.GetAccount(r.Context(), id)
	if err != nil {
		writeServiceError[models.GetAccountResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("account fetched successfully", toGetAccountResponse(account))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func toGetAccountResponse(account domain.Account) models.GetAccountResponse {
	return models.GetAccountResponse{
		ID:             account.ID,
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		Status:         string(account.Status),
		Balance:        account.Balance,
		RegisteredAt:   formatTime(&account.RegisteredAt),
		UnregisteredAt: formatTime(account.UnregisteredAt),
	}
}

func parseID(raw string, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New(name + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}
