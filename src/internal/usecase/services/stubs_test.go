package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type accountRepoStub struct {
	saveFn               func(ctx context.Context, account domain.Account) (domain.Account, error)
	getByIDFn            func(ctx context.Context, id int64) (domain.Account, error)
	getByAccountNumberFn func(ctx context.Context, accountNumber string) (domain.Account, error)
	getLatestFn          func(ctx context.Context) (domain.Account, error)
	countByUserIDFn      func(ctx context.Context, userID int64) (int, error)
	listByUserIDFn       func(ctx context.Context, userID int64) ([]domain.Account, error)
}

func (s *accountRepoStub) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	return s.saveFn(ctx, account)
}

func (s *accountRepoStub) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	return s.getByIDFn(ctx, id)
}

func (s *accountRepoStub) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return s.getByAccountNumberFn(ctx, accountNumber)
}

func (s *accountRepoStub) GetLatest(ctx context.Context) (domain.Account, error) {
	return s.getLatestFn(ctx)
}

func (s *accountRepoStub) CountByUserID(ctx context.Context, userID int64) (int, error) {
	return s.countByUserIDFn(ctx, userID)
}

func (s *accountRepoStub) ListByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.listByUserIDFn(ctx, userID)
}

type balanceLedgerStub struct {
	applyFn func(ctx context.Context, account domain.Account, transaction domain.Transaction) (domain.Account, domain.Transaction, error)
}

func (s *balanceLedgerStub) ApplyBalanceChange(ctx context.Context, account domain.Account, transaction domain.Transaction) (domain.Account, domain.Transaction, error) {
	return s.applyFn(ctx, account, transaction)
}

type fixture struct {
	users        *memory.UserRepository
	accounts     *memory.AccountRepository
	transactions *memory.TransactionRepository
	ledger       *memory.BalanceLedger
	account      domain.Account
}

// newFixture seeds user 1 owning account 1000000000 with a balance of 10000,
// and user 2 with no accounts.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	f := &fixture{
		users:        memory.NewUserRepository(),
		accounts:     memory.NewAccountRepository(),
		transactions: memory.NewTransactionRepository(),
	}
	f.ledger = memory.NewBalanceLedger(f.accounts, f.transactions)

	for _, name := range []string{"Pobi", "Crong"} {
		if _, err := f.users.Create(ctx, domain.User{Name: name}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	account, err := f.accounts.Save(ctx, domain.Account{
		UserID:        1,
		AccountNumber: domain.FirstAccountNumber,
		Status:        domain.AccountStatusActive,
		Balance:       10000,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	f.account = account

	return f
}

func (f *fixture) addAccount(t *testing.T, account domain.Account) domain.Account {
	t.Helper()

	saved, err := f.accounts.Save(context.Background(), account)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return saved
}

func (f *fixture) balance(t *testing.T, accountNumber string) int64 {
	t.Helper()

	account, err := f.accounts.GetByAccountNumber(context.Background(), accountNumber)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return account.Balance
}
