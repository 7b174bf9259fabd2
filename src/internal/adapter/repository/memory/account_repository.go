package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
	nextID   int64
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[int64]domain.Account)}
}

func (r *AccountRepository) Save(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveLocked(account)
}

// saveLocked requires r.mu held for writing.
func (r *AccountRepository) saveLocked(account domain.Account) (domain.Account, error) {
	for id, existing := range r.accounts {
		if id != account.ID && existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, commons.ErrDuplicateRecord
		}
	}

	now := time.Now().UTC()
	if account.ID == 0 {
		r.nextID++
		account.ID = r.nextID
		account.CreatedAt = now
	} else if existing, ok := r.accounts[account.ID]; ok {
		account.CreatedAt = existing.CreatedAt
	} else {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	account.UpdatedAt = now

	r.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id int64) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *AccountRepository) GetLatest(_ context.Context) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest domain.Account
	for _, account := range r.accounts {
		if account.ID > latest.ID {
			latest = account
		}
	}
	if latest.ID == 0 {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return latest, nil
}

func (r *AccountRepository) CountByUserID(_ context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, account := range r.accounts {
		if account.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *AccountRepository) ListByUserID(_ context.Context, userID int64) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, account := range r.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}
