package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/adapter/http/controller"
	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/lock"
	"github.com/api-sage/account-balance-service/src/internal/usecase/services"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
	Errors    []string        `json:"errors"`
}

type testServer struct {
	mux          *http.ServeMux
	accounts     *memory.AccountRepository
	transactions *memory.TransactionRepository
	manager      *lock.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	users := memory.NewUserRepository()
	accounts := memory.NewAccountRepository()
	transactions := memory.NewTransactionRepository()

	for _, name := range []string{"Pobi", "Crong"} {
		if _, err := users.Create(ctx, domain.User{Name: name}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if _, err := accounts.Save(ctx, domain.Account{
		UserID:        1,
		AccountNumber: "1000000000",
		Status:        domain.AccountStatusActive,
		Balance:       10000,
		RegisteredAt:  time.Now(),
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	manager := lock.NewManager(lock.NewMemoryStore(), lock.Options{
		WaitTimeout:   30 * time.Millisecond,
		RetryInterval: 2 * time.Millisecond,
	})
	transactionService := services.NewLockedTransactionService(
		services.NewTransactionService(transactions, accounts, memory.NewBalanceLedger(accounts, transactions), users, nil),
		manager,
	)
	accountService := services.NewLockedAccountService(services.NewAccountService(accounts, users), manager)

	mux := http.NewServeMux()
	controller.NewTransactionController(transactionService).RegisterRoutes(mux, nil)
	controller.NewAccountController(accountService).RegisterRoutes(mux, nil)

	return &testServer{mux: mux, accounts: accounts, transactions: transactions, manager: manager}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestUseBalanceEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/transaction/use", map[string]any{
		"userId":        1,
		"accountNumber": "1000000000",
		"amount":        200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var data struct {
		AccountNumber     string `json:"accountNumber"`
		TransactionResult string `json:"transactionResult"`
		TransactionID     string `json:"transactionId"`
		Amount            int64  `json:"amount"`
		BalanceSnapshot   int64  `json:"balanceSnapshot"`
		TransactedAt      string `json:"transactedAt"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.AccountNumber != "1000000000" || data.TransactionResult != "SUCCESS" || data.Amount != 200 || data.BalanceSnapshot != 9800 {
		t.Fatalf("unexpected response data %+v", data)
	}
	if data.TransactionID == "" || data.TransactedAt == "" {
		t.Fatalf("expected transaction id and time, got %+v", data)
	}

	rec, env = srv.do(t, http.MethodGet, "/transaction/"+data.TransactionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var queried struct {
		TransactionType string `json:"transactionType"`
		TransactionID   string `json:"transactionId"`
		Amount          int64  `json:"amount"`
	}
	if err := json.Unmarshal(env.Data, &queried); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if queried.TransactionType != "USE" || queried.TransactionID != data.TransactionID || queried.Amount != 200 {
		t.Fatalf("unexpected query data %+v", queried)
	}

	rec, env = srv.do(t, http.MethodPost, "/transaction/cancel", map[string]any{
		"transactionId": data.TransactionID,
		"accountNumber": "1000000000",
		"amount":        200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %+v", env)
	}
}

func TestEndpointsMapBusinessErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   domain.ErrorCode
	}{
		{
			name:       "unknown user",
			method:     http.MethodPost,
			path:       "/transaction/use",
			body:       map[string]any{"userId": 99, "accountNumber": "1000000000", "amount": 200},
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ErrorCodeUserNotFound,
		},
		{
			name:       "owner mismatch",
			method:     http.MethodPost,
			path:       "/transaction/use",
			body:       map[string]any{"userId": 2, "accountNumber": "1000000000", "amount": 200},
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrorCodeUserAccountUnMatch,
		},
		{
			name:       "overdraft",
			method:     http.MethodPost,
			path:       "/transaction/use",
			body:       map[string]any{"userId": 1, "accountNumber": "1000000000", "amount": 10001},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   domain.ErrorCodeAmountExceedBalance,
		},
		{
			name:       "invalid amount",
			method:     http.MethodPost,
			path:       "/transaction/use",
			body:       map[string]any{"userId": 1, "accountNumber": "1000000000", "amount": 5},
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrorCodeInvalidRequest,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			path:       "/transaction/use",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrorCodeInvalidRequest,
		},
		{
			name:       "unknown transaction",
			method:     http.MethodGet,
			path:       "/transaction/ffffffffffffffffffffffffffffffff",
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ErrorCodeTransactionNotFound,
		},
		{
			name:       "delete account with balance",
			method:     http.MethodDelete,
			path:       "/account",
			body:       map[string]any{"userId": 1, "accountNumber": "1000000000"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   domain.ErrorCodeBalanceNotEmpty,
		},
		{
			name:       "unknown account id",
			method:     http.MethodGet,
			path:       "/account/404",
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ErrorCodeAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec, env := srv.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if env.Success {
				t.Fatal("expected failure envelope")
			}
			if env.ErrorCode != string(tt.wantCode) {
				t.Fatalf("expected error code %s, got %s", tt.wantCode, env.ErrorCode)
			}
		})
	}
}

func TestUseBalanceEndpointReportsLockedAccount(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	held, err := srv.manager.Acquire(ctx, "1000000000", time.Second, time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer srv.manager.Release(ctx, held)

	rec, env := srv.do(t, http.MethodPost, "/transaction/use", map[string]any{
		"userId":        1,
		"accountNumber": "1000000000",
		"amount":        200,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if env.ErrorCode != string(domain.ErrorCodeAccountTransactionLock) {
		t.Fatalf("expected ACCOUNT_TRANSACTION_LOCK, got %s", env.ErrorCode)
	}
}

func TestTransactionEndpointsRejectWrongMethod(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/transaction/use", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/account", map[string]any{"userId": 2, "initialBalance": 0})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		UserID        int64  `json:"userId"`
		AccountNumber string `json:"accountNumber"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.UserID != 2 || created.AccountNumber != "1000000001" {
		t.Fatalf("unexpected created account %+v", created)
	}

	rec, env = srv.do(t, http.MethodGet, "/account?user_id=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var listed []struct {
		AccountNumber string `json:"accountNumber"`
		Balance       int64  `json:"balance"`
	}
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(listed) != 1 || listed[0].AccountNumber != "1000000001" {
		t.Fatalf("unexpected account list %+v", listed)
	}

	rec, _ = srv.do(t, http.MethodGet, "/account?user_id=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	rec, env = srv.do(t, http.MethodDelete, "/account", map[string]any{"userId": 2, "accountNumber": "1000000001"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var deleted struct {
		UnregisteredAt string `json:"unregisteredAt"`
	}
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if deleted.UnregisteredAt == "" {
		t.Fatal("expected unregisteredAt to be set")
	}

	account, err := srv.accounts.GetByAccountNumber(context.Background(), "1000000001")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Status != domain.AccountStatusUnregistered {
		t.Fatalf("expected UNREGISTERED, got %s", account.Status)
	}

	rec, env = srv.do(t, http.MethodGet, "/account/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var fetched struct {
		AccountNumber string `json:"accountNumber"`
		Balance       int64  `json:"balance"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &fetched); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if fetched.AccountNumber != "1000000000" || fetched.Balance != 10000 || fetched.Status != "ACTIVE" {
		t.Fatalf("unexpected account %+v", fetched)
	}
}
