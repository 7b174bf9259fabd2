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

type BalanceLedger struct {
	db *sql.DB
}

func NewBalanceLedger(db *sql.DB) *BalanceLedger {
	return &BalanceLedger{db: db}
}

func (l *BalanceLedger) ApplyBalanceChange(ctx context.Context, account domain.Account, transaction domain.Transaction) (domain.Account, domain.Transaction, error) {
	fields := logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"balance":       account.Balance,
		"transactionId": transaction.TransactionID,
		"type":          transaction.Type,
	}
	logger.Info("balance ledger apply balance change", fields)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("balance ledger begin tx failed", err, fields)
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("begin balance transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateAccountQuery = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	var updated domain.Account
	if err = scanAccount(tx.QueryRowContext(ctx, updateAccountQuery, account.ID, account.Balance), &updated); err != nil {
		logger.Error("balance ledger update account failed", err, fields)
		if errors.Is(err, sql.ErrNoRows) {
			err = commons.ErrRecordNotFound
			return domain.Account{}, domain.Transaction{}, err
		}
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("update account balance: %w", err)
	}

	const insertTransactionQuery = `
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

	if err = tx.QueryRowContext(
		ctx,
		insertTransactionQuery,
		transaction.TransactionID,
		transaction.AccountID,
		transaction.Type,
		transaction.Result,
		transaction.Amount,
		transaction.BalanceSnapshot,
		transaction.TransactedAt,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
		logger.Error("balance ledger insert transaction failed", err, fields)
		if isUniqueViolation(err) {
			err = fmt.Errorf("insert transaction: %w", commons.ErrDuplicateRecord)
			return domain.Account{}, domain.Transaction{}, err
		}
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("balance ledger commit tx failed", err, fields)
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("commit balance transaction: %w", err)
	}

	logger.Info("balance ledger apply balance change success", logger.Fields{
		"accountId":     updated.ID,
		"balance":       updated.Balance,
		"transactionId": transaction.TransactionID,
	})

	return updated, transaction, nil
}
