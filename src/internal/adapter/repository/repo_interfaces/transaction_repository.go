package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type TransactionRepository interface {
	// Save records a new transaction. Recorded transactions are never updated.
	Save(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	GetByTransactionID(ctx context.Context, transactionID string) (domain.Transaction, error)
}
