package service_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type TransactionService interface {
	UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (domain.Transaction, error)
	CancelBalance(ctx context.Context, transactionID string, accountNumber string, amount int64) (domain.Transaction, error)
	QueryTransaction(ctx context.Context, transactionID string) (domain.Transaction, error)
	RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (domain.Transaction, error)
}
