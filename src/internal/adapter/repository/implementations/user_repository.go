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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	logger.Info("user repository get by id", logger.Fields{
		"userId": id,
	})

	const query = `
SELECT id, name, created_at, updated_at
FROM account_users
WHERE id = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"userId": id,
			})
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get by id failed", err, logger.Fields{
			"userId": id,
		})
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}
