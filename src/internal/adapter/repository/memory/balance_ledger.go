package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

// BalanceLedger applies balance changes across an AccountRepository and a
// TransactionRepository while holding both locks.
type BalanceLedger struct {
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewBalanceLedger(accounts *AccountRepository, transactions *TransactionRepository) *BalanceLedger {
	return &BalanceLedger{accounts: accounts, transactions: transactions}
}

func (l *BalanceLedger) ApplyBalanceChange(_ context.Context, account domain.Account, transaction domain.Transaction) (domain.Account, domain.Transaction, error) {
	l.accounts.mu.Lock()
	defer l.accounts.mu.Unlock()
	l.transactions.mu.Lock()
	defer l.transactions.mu.Unlock()

	previous, ok := l.accounts.accounts[account.ID]
	updated, err := l.accounts.saveLocked(account)
	if err != nil {
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("update account balance: %w", err)
	}

	saved, err := l.transactions.saveLocked(transaction)
	if err != nil {
		if ok {
			l.accounts.accounts[account.ID] = previous
		}
		return domain.Account{}, domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return updated, saved, nil
}
