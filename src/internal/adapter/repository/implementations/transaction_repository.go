package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/logger"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository save", logger.Fields{
		"transactionId": transaction.TransactionID,
		"accountId":     transaction.AccountID,
		"type":          transaction.Type,
		"result":        transaction.Result,
	})

	const query = `
INSERT INTO transactions (
	transaction_id,
	account_id,
	transaction_type,
	transaction_result_type,
	amount,
	balance_snapshot,
	transacted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.TransactionID,
		transaction.AccountID,
		transaction.Type,
		transaction.Result,
		transaction.Amount,
		transaction.BalanceSnapshot,
		transaction.TransactedAt,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
		logger.Error("transaction repository save failed", err, logger.Fields{
			"transactionId": transaction.TransactionID,
		})
		if isUniqueViolation(err) {
			return domain.Transaction{}, fmt.Errorf("save transaction: %w", commons.ErrDuplicateRecord)
		}
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	logger.Info("transaction repository save success", logger.Fields{
		"id":            transaction.ID,
		"transactionId": transaction.TransactionID,
	})

	return transaction, nil
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (domain.Transaction, error) {
	logger.Info("transaction repository get by transaction id", logger.Fields{
		"transactionId": transactionID,
	})

	const query = `
SELECT t.id, t.transaction_id, t.account_id, a.account_number, t.transaction_type,
       t.transaction_result_type, t.amount, t.balance_snapshot, t.transacted_at,
       t.created_at, t.updated_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id
WHERE t.transaction_id = $1`

	var transaction domain.Transaction
	if err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&transaction.ID,
		&transaction.TransactionID,
		&transaction.AccountID,
		&transaction.AccountNumber,
		&transaction.Type,
		&transaction.Result,
		&transaction.Amount,
		&transaction.BalanceSnapshot,
		&transaction.TransactedAt,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("transaction repository record not found", logger.Fields{
				"transactionId": transactionID,
			})
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		logger.Error("transaction repository get failed", err, logger.Fields{
			"transactionId": transactionID,
		})
		return domain.Transaction{}, fmt.Errorf("get transaction by transaction id: %w", err)
	}

	return transaction, nil
}
