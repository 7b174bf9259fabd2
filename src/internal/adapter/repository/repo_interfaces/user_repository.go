package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
}
