package service_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type AccountService interface {
	CreateAccount(ctx context.Context, userID int64, initialBalance int64) (domain.Account, error)
	DeleteAccount(ctx context.Context, userID int64, accountNumber string) (domain.Account, error)
	GetAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error)
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
}
