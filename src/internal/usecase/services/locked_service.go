package services

import (
	"context"
	"errors"

	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/lock"
	"github.com/api-sage/account-balance-service/src/internal/usecase/service_interfaces"
)

// AccountGuard runs fn while holding the lock for an account number.
// *lock.Manager implements it.
type AccountGuard interface {
	WithLock(ctx context.Context, resourceKey string, fn func(ctx context.Context) error) error
}

// LockedTransactionService serializes balance-changing operations per account.
// Reads and failure recording pass straight through.
type LockedTransactionService struct {
	inner service_interfaces.TransactionService
	guard AccountGuard
}

func NewLockedTransactionService(inner service_interfaces.TransactionService, guard AccountGuard) *LockedTransactionService {
	return &LockedTransactionService{inner: inner, guard: guard}
}

func (s *LockedTransactionService) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (domain.Transaction, error) {
	var transaction domain.Transaction
	err := guarded(ctx, s.guard, accountNumber, func(ctx context.Context) error {
		var err error
		transaction, err = s.inner.UseBalance(ctx, userID, accountNumber, amount)
		return err
	})
	return transaction, err
}

func (s *LockedTransactionService) CancelBalance(ctx context.Context, transactionID string, accountNumber string, amount int64) (domain.Transaction, error) {
	var transaction domain.Transaction
	err := guarded(ctx, s.guard, accountNumber, func(ctx context.Context) error {
		var err error
		transaction, err = s.inner.CancelBalance(ctx, transactionID, accountNumber, amount)
		return err
	})
	return transaction, err
}

func (s *LockedTransactionService) QueryTransaction(ctx context.Context, transactionID string) (domain.Transaction, error) {
	return s.inner.QueryTransaction(ctx, transactionID)
}

func (s *LockedTransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (domain.Transaction, error) {
	return s.inner.RecordFailedUse(ctx, accountNumber, amount)
}

// LockedAccountService guards account deletion with the same per-account lock
// used for balance operations.
type LockedAccountService struct {
	inner service_interfaces.AccountService
	guard AccountGuard
}

func NewLockedAccountService(inner service_interfaces.AccountService, guard AccountGuard) *LockedAccountService {
	return &LockedAccountService{inner: inner, guard: guard}
}

func (s *LockedAccountService) CreateAccount(ctx context.Context, userID int64, initialBalance int64) (domain.Account, error) {
	return s.inner.CreateAccount(ctx, userID, initialBalance)
}

func (s *LockedAccountService) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (domain.Account, error) {
	var account domain.Account
	err := guarded(ctx, s.guard, accountNumber, func(ctx context.Context) error {
		var err error
		account, err = s.inner.DeleteAccount(ctx, userID, accountNumber)
		return err
	})
	return account, err
}

func (s *LockedAccountService) GetAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.inner.GetAccountsByUserID(ctx, userID)
}

func (s *LockedAccountService) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	return s.inner.GetAccount(ctx, id)
}

func guarded(ctx context.Context, guard AccountGuard, accountNumber string, fn func(ctx context.Context) error) error {
	err := guard.WithLock(ctx, accountNumber, fn)
	if errors.Is(err, lock.ErrLockAcquisitionFailed) {
		return domain.WrapAccountError(domain.ErrorCodeAccountTransactionLock, err)
	}
	return err
}
