package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
	nextID       int64
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{transactions: make(map[string]domain.Transaction)}
}

func (r *TransactionRepository) Save(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveLocked(transaction)
}

func (r *TransactionRepository) saveLocked(transaction domain.Transaction) (domain.Transaction, error) {
	if _, exists := r.transactions[transaction.TransactionID]; exists {
		return domain.Transaction{}, commons.ErrDuplicateRecord
	}

	r.nextID++
	now := time.Now().UTC()
	transaction.ID = r.nextID
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	r.transactions[transaction.TransactionID] = transaction
	return transaction, nil
}

func (r *TransactionRepository) GetByTransactionID(_ context.Context, transactionID string) (domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transaction, ok := r.transactions[transactionID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	return transaction, nil
}

// All returns every recorded transaction, oldest first.
func (r *TransactionRepository) All() []domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Transaction, len(r.transactions))
	for _, transaction := range r.transactions {
		out[transaction.ID-1] = transaction
	}
	return out
}
