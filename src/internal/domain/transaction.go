package domain

import "time"

type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
	TransactionResultFail    TransactionResult = "FAIL"
)

// Transaction is an immutable record of one balance operation attempt.
// BalanceSnapshot holds the balance right after the operation took effect, or
// the unchanged balance for a failed attempt.
type Transaction struct {
	ID              int64
	TransactionID   string
	AccountID       int64
	AccountNumber   string
	Type            TransactionType
	Result          TransactionResult
	Amount          int64
	BalanceSnapshot int64
	TransactedAt    time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
