package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-balance-service/src/internal/cache"
	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/logger"
	"github.com/api-sage/account-balance-service/src/internal/metrics"
)

var tracer = otel.Tracer("github.com/api-sage/account-balance-service/src/internal/usecase/services")

// TransactionService validates and applies balance operations. UseBalance and
// CancelBalance must run while the caller holds the account lock; see
// LockedTransactionService.
type TransactionService struct {
	transactionRepo  repo_interfaces.TransactionRepository
	accountRepo      repo_interfaces.AccountRepository
	ledger           repo_interfaces.BalanceLedger
	userRepo         repo_interfaces.UserRepository
	transactionCache *cache.TransactionCache
}

// NewTransactionService builds the engine. transactionCache may be nil.
func NewTransactionService(
	transactionRepo repo_interfaces.TransactionRepository,
	accountRepo repo_interfaces.AccountRepository,
	ledger repo_interfaces.BalanceLedger,
	userRepo repo_interfaces.UserRepository,
	transactionCache *cache.TransactionCache,
) *TransactionService {
	return &TransactionService{
		transactionRepo:  transactionRepo,
		accountRepo:      accountRepo,
		ledger:           ledger,
		userRepo:         userRepo,
		transactionCache: transactionCache,
	}
}

func (s *TransactionService) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.UseBalance", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("account.number", accountNumber),
		attribute.Int64("amount", amount),
	))
	defer span.End()

	fields := logger.Fields{
		"userId":        userID,
		"accountNumber": accountNumber,
		"amount":        amount,
	}
	logger.Info("transaction service use balance request", fields)

	if amount <= 0 {
		return s.fail(span, "transaction service use balance validation failed", invalidAmount(amount), fields)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return s.fail(span, "transaction service use balance user lookup failed", notFound(err, domain.ErrUserNotFound, "get user"), fields)
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return s.fail(span, "transaction service use balance account lookup failed", notFound(err, domain.ErrAccountNotFound, "get account"), fields)
	}
	if account.UserID != userID {
		return s.fail(span, "transaction service use balance owner check failed", domain.ErrUserAccountUnMatch, fields)
	}
	if account.Status != domain.AccountStatusActive {
		return s.fail(span, "transaction service use balance status check failed", domain.ErrAccountAlreadyUnregistered, fields)
	}

	if err := account.Use(amount); err != nil {
		if _, recordErr := s.RecordFailedUse(ctx, accountNumber, amount); recordErr != nil {
			err = fmt.Errorf("%w (record failed use: %v)", err, recordErr)
		}
		return s.fail(span, "transaction service use balance rejected", err, fields)
	}

	transaction, err := s.apply(ctx, account, domain.TransactionTypeUse, amount)
	if err != nil {
		return s.fail(span, "transaction service use balance apply failed", err, fields)
	}

	logger.Info("transaction service use balance success", logger.Fields{
		"transactionId":   transaction.TransactionID,
		"accountNumber":   transaction.AccountNumber,
		"amount":          transaction.Amount,
		"balanceSnapshot": transaction.BalanceSnapshot,
	})

	return transaction, nil
}

// CancelBalance refunds amount from the original transaction. The original's
// result and any earlier cancellation of it are not checked.
func (s *TransactionService) CancelBalance(ctx context.Context, transactionID string, accountNumber string, amount int64) (domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.CancelBalance", trace.WithAttributes(
		attribute.String("transaction.id", transactionID),
		attribute.String("account.number", accountNumber),
		attribute.Int64("amount", amount),
	))
	defer span.End()

	fields := logger.Fields{
		"transactionId": transactionID,
		"accountNumber": accountNumber,
		"amount":        amount,
	}
	logger.Info("transaction service cancel balance request", fields)

	if amount <= 0 {
		return s.fail(span, "transaction service cancel balance validation failed", invalidAmount(amount), fields)
	}

	original, err := s.find(ctx, strings.TrimSpace(transactionID))
	if err != nil {
		return s.fail(span, "transaction service cancel balance transaction lookup failed", err, fields)
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return s.fail(span, "transaction service cancel balance account lookup failed", notFound(err, domain.ErrAccountNotFound, "get account"), fields)
	}
	if original.AccountID != account.ID {
		return s.fail(span, "transaction service cancel balance account check failed", domain.ErrTransactionAccountUnMatch, fields)
	}
	if original.Amount != amount {
		return s.fail(span, "transaction service cancel balance amount check failed", domain.ErrCancelMustFully, fields)
	}
	if original.TransactedAt.Before(time.Now().AddDate(-1, 0, 0)) {
		return s.fail(span, "transaction service cancel balance window check failed", domain.ErrTooOldOrderToCancel, fields)
	}

	account.Cancel(amount)
	transaction, err := s.apply(ctx, account, domain.TransactionTypeCancel, amount)
	if err != nil {
		return s.fail(span, "transaction service cancel balance apply failed", err, fields)
	}

	logger.Info("transaction service cancel balance success", logger.Fields{
		"transactionId":         transaction.TransactionID,
		"originalTransactionId": original.TransactionID,
		"accountNumber":         transaction.AccountNumber,
		"amount":                transaction.Amount,
		"balanceSnapshot":       transaction.BalanceSnapshot,
	})

	return transaction, nil
}

func (s *TransactionService) QueryTransaction(ctx context.Context, transactionID string) (domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.QueryTransaction", trace.WithAttributes(
		attribute.String("transaction.id", transactionID),
	))
	defer span.End()

	fields := logger.Fields{
		"transactionId": transactionID,
	}
	logger.Info("transaction service query transaction request", fields)

	transaction, err := s.find(ctx, strings.TrimSpace(transactionID))
	if err != nil {
		return s.fail(span, "transaction service query transaction failed", err, fields)
	}

	logger.Info("transaction service query transaction success", logger.Fields{
		"transactionId": transaction.TransactionID,
		"type":          transaction.Type,
		"result":        transaction.Result,
	})

	return transaction, nil
}

// RecordFailedUse persists a FAIL USE record carrying the account's current,
// unchanged balance. The account balance itself is not touched.
func (s *TransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.RecordFailedUse", trace.WithAttributes(
		attribute.String("account.number", accountNumber),
		attribute.Int64("amount", amount),
	))
	defer span.End()

	fields := logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount,
	}
	logger.Info("transaction service record failed use request", fields)

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return s.fail(span, "transaction service record failed use account lookup failed", notFound(err, domain.ErrAccountNotFound, "get account"), fields)
	}

	transaction, err := s.record(ctx, account, domain.TransactionTypeUse, domain.TransactionResultFail, amount)
	if err != nil {
		return s.fail(span, "transaction service record failed use failed", err, fields)
	}

	logger.Info("transaction service record failed use success", logger.Fields{
		"transactionId":   transaction.TransactionID,
		"balanceSnapshot": transaction.BalanceSnapshot,
	})

	return transaction, nil
}

func (s *TransactionService) find(ctx context.Context, transactionID string) (domain.Transaction, error) {
	load := func(ctx context.Context, transactionID string) (domain.Transaction, error) {
		transaction, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
		if err != nil {
			return domain.Transaction{}, notFound(err, domain.ErrTransactionNotFound, "get transaction")
		}
		return transaction, nil
	}

	if transactionID == "" {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	if s.transactionCache == nil {
		return load(ctx, transactionID)
	}
	return s.transactionCache.Get(ctx, transactionID, load)
}

// apply stores account's changed balance together with a SUCCESS record of
// the change.
func (s *TransactionService) apply(
	ctx context.Context,
	account domain.Account,
	transactionType domain.TransactionType,
	amount int64,
) (domain.Transaction, error) {
	_, saved, err := s.ledger.ApplyBalanceChange(ctx, account, newTransaction(account, transactionType, domain.TransactionResultSuccess, amount))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("apply balance change: %w", err)
	}
	return s.recorded(saved, account), nil
}

// record saves a transaction snapshotting account's balance as given.
func (s *TransactionService) record(
	ctx context.Context,
	account domain.Account,
	transactionType domain.TransactionType,
	result domain.TransactionResult,
	amount int64,
) (domain.Transaction, error) {
	saved, err := s.transactionRepo.Save(ctx, newTransaction(account, transactionType, result, amount))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	return s.recorded(saved, account), nil
}

func (s *TransactionService) recorded(saved domain.Transaction, account domain.Account) domain.Transaction {
	if saved.AccountNumber == "" {
		saved.AccountNumber = account.AccountNumber
	}

	metrics.TransactionCounter.WithLabelValues(string(saved.Type), string(saved.Result)).Inc()
	if s.transactionCache != nil {
		s.transactionCache.Put(saved)
	}

	return saved
}

func newTransaction(
	account domain.Account,
	transactionType domain.TransactionType,
	result domain.TransactionResult,
	amount int64,
) domain.Transaction {
	return domain.Transaction{
		TransactionID:   newTransactionID(),
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            transactionType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    time.Now().UTC(),
	}
}

func (s *TransactionService) fail(span trace.Span, message string, err error, fields logger.Fields) (domain.Transaction, error) {
	code := domain.CodeOf(err)
	metrics.TransactionErrorCounter.WithLabelValues(string(code)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	logger.Error(message, err, fields)
	return domain.Transaction{}, err
}

// newTransactionID returns a 32 character hex id.
func newTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// notFound maps a repository miss to businessErr and wraps anything else.
func notFound(err error, businessErr *domain.AccountError, op string) error {
	if errors.Is(err, commons.ErrRecordNotFound) {
		return businessErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalidAmount(amount int64) error {
	return domain.WrapAccountError(domain.ErrorCodeInvalidRequest, fmt.Errorf("amount must be positive, got %d", amount))
}
