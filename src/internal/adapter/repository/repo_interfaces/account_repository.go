package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type AccountRepository interface {
	// Save inserts an account with a zero ID and updates it otherwise.
	Save(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	GetLatest(ctx context.Context) (domain.Account, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Account, error)
}
