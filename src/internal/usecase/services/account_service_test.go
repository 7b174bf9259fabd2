package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/usecase/services"
)

func TestAccountServiceCreateAccountIssuesSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	svc := services.NewAccountService(f.accounts, f.users)
	ctx := context.Background()

	first, err := svc.CreateAccount(ctx, 2, 1000)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	second, err := svc.CreateAccount(ctx, 2, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if first.AccountNumber != "1000000001" {
		t.Fatalf("expected account number 1000000001, got %s", first.AccountNumber)
	}
	if second.AccountNumber != "1000000002" {
		t.Fatalf("expected account number 1000000002, got %s", second.AccountNumber)
	}
	if first.Status != domain.AccountStatusActive || first.Balance != 1000 || first.UserID != 2 {
		t.Fatalf("unexpected account %+v", first)
	}
	if first.RegisteredAt.IsZero() {
		t.Fatal("expected registeredAt to be set")
	}
}

func TestAccountServiceCreateAccountStartsAtFirstNumber(t *testing.T) {
	f := newFixture(t)
	accounts := &accountRepoStub{
		countByUserIDFn: func(ctx context.Context, userID int64) (int, error) { return 0, nil },
		getLatestFn: func(ctx context.Context) (domain.Account, error) {
			return domain.Account{}, commons.ErrRecordNotFound
		},
		saveFn: func(ctx context.Context, account domain.Account) (domain.Account, error) {
			account.ID = 1
			return account, nil
		},
	}

	created, err := services.NewAccountService(accounts, f.users).CreateAccount(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.AccountNumber != domain.FirstAccountNumber {
		t.Fatalf("expected %s, got %s", domain.FirstAccountNumber, created.AccountNumber)
	}
}

func TestAccountServiceCreateAccountRetriesNumberCollision(t *testing.T) {
	f := newFixture(t)
	latest := []string{"1000000004", "1000000005"}
	saves := 0
	accounts := &accountRepoStub{
		countByUserIDFn: func(ctx context.Context, userID int64) (int, error) { return 1, nil },
		getLatestFn: func(ctx context.Context) (domain.Account, error) {
			number := latest[0]
			if len(latest) > 1 {
				latest = latest[1:]
			}
			return domain.Account{AccountNumber: number}, nil
		},
		saveFn: func(ctx context.Context, account domain.Account) (domain.Account, error) {
			saves++
			if saves == 1 {
				return domain.Account{}, commons.ErrDuplicateRecord
			}
			account.ID = 7
			return account, nil
		},
	}

	created, err := services.NewAccountService(accounts, f.users).CreateAccount(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if saves != 2 {
		t.Fatalf("expected 2 save attempts, got %d", saves)
	}
	if created.AccountNumber != "1000000006" {
		t.Fatalf("expected 1000000006, got %s", created.AccountNumber)
	}
}

func TestAccountServiceCreateAccountGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	saves := 0
	accounts := &accountRepoStub{
		countByUserIDFn: func(ctx context.Context, userID int64) (int, error) { return 0, nil },
		getLatestFn: func(ctx context.Context) (domain.Account, error) {
			return domain.Account{AccountNumber: "1000000000"}, nil
		},
		saveFn: func(ctx context.Context, account domain.Account) (domain.Account, error) {
			saves++
			return domain.Account{}, commons.ErrDuplicateRecord
		},
	}

	_, err := services.NewAccountService(accounts, f.users).CreateAccount(context.Background(), 1, 0)
	if !errors.Is(err, commons.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
	if saves != 5 {
		t.Fatalf("expected 5 save attempts, got %d", saves)
	}
}

func TestAccountServiceCreateAccountRejections(t *testing.T) {
	f := newFixture(t)
	svc := services.NewAccountService(f.accounts, f.users)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, 99, 0); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.CreateAccount(ctx, 1, -1); domain.CodeOf(err) != domain.ErrorCodeInvalidRequest {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}

	for i := 1; i < domain.MaxAccountsPerUser; i++ {
		if _, err := svc.CreateAccount(ctx, 1, 0); err != nil {
			t.Fatalf("create account %d: %v", i+1, err)
		}
	}
	if _, err := svc.CreateAccount(ctx, 1, 0); !errors.Is(err, domain.ErrMaxAccountPerUser10) {
		t.Fatalf("expected ErrMaxAccountPerUser10, got %v", err)
	}
}

func TestAccountServiceDeleteAccount(t *testing.T) {
	f := newFixture(t)
	svc := services.NewAccountService(f.accounts, f.users)
	ctx := context.Background()

	empty := f.addAccount(t, domain.Account{
		UserID:        1,
		AccountNumber: "1000000001",
		Status:        domain.AccountStatusActive,
	})

	if _, err := svc.DeleteAccount(ctx, 99, empty.AccountNumber); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.DeleteAccount(ctx, 1, "1999999999"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.DeleteAccount(ctx, 2, empty.AccountNumber); !errors.Is(err, domain.ErrUserAccountUnMatch) {
		t.Fatalf("expected ErrUserAccountUnMatch, got %v", err)
	}
	if _, err := svc.DeleteAccount(ctx, 1, "1000000000"); !errors.Is(err, domain.ErrBalanceNotEmpty) {
		t.Fatalf("expected ErrBalanceNotEmpty, got %v", err)
	}

	deleted, err := svc.DeleteAccount(ctx, 1, empty.AccountNumber)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if deleted.Status != domain.AccountStatusUnregistered || deleted.UnregisteredAt == nil {
		t.Fatalf("expected unregistered account, got %+v", deleted)
	}

	if _, err := svc.DeleteAccount(ctx, 1, empty.AccountNumber); !errors.Is(err, domain.ErrAccountAlreadyUnregistered) {
		t.Fatalf("expected ErrAccountAlreadyUnregistered, got %v", err)
	}
}

func TestAccountServiceGetAccounts(t *testing.T) {
	f := newFixture(t)
	svc := services.NewAccountService(f.accounts, f.users)
	ctx := context.Background()

	accounts, err := svc.GetAccountsByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountNumber != "1000000000" || accounts[0].Balance != 10000 {
		t.Fatalf("unexpected accounts %+v", accounts)
	}

	accounts, err = svc.GetAccountsByUserID(ctx, 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %d", len(accounts))
	}

	if _, err := svc.GetAccountsByUserID(ctx, 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	account, err := svc.GetAccount(ctx, f.account.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if account.AccountNumber != "1000000000" {
		t.Fatalf("expected 1000000000, got %s", account.AccountNumber)
	}
	if _, err := svc.GetAccount(ctx, 404); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
