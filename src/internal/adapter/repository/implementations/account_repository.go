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

const accountColumns = `id, account_user_id, account_number, account_status, balance, registered_at, unregistered_at, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	if account.ID == 0 {
		return r.create(ctx, account)
	}
	return r.update(ctx, account)
}

func (r *AccountRepository) create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"userId":        account.UserID,
		"accountNumber": account.AccountNumber,
	})

	const query = `
INSERT INTO accounts (
	account_user_id,
	account_number,
	account_status,
	balance,
	registered_at,
	unregistered_at
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns

	var created domain.Account
	if err := scanAccount(r.db.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.AccountNumber,
		account.Status,
		account.Balance,
		account.RegisteredAt,
		account.UnregisteredAt,
	), &created); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"userId":        account.UserID,
			"accountNumber": account.AccountNumber,
		})
		if isUniqueViolation(err) {
			return domain.Account{}, fmt.Errorf("create account: %w", commons.ErrDuplicateRecord)
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
	})

	return created, nil
}

func (r *AccountRepository) update(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository update", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"status":        account.Status,
	})

	const query = `
UPDATE accounts
SET account_status = $2,
    balance = $3,
    unregistered_at = $4,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	var updated domain.Account
	if err := scanAccount(r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.Status,
		account.Balance,
		account.UnregisteredAt,
	), &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": account.ID,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository update failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	logger.Info("account repository update success", logger.Fields{
		"accountId": updated.ID,
		"balance":   updated.Balance,
	})

	return updated, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, "get by id", query, id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.getOne(ctx, "get by account number", query, accountNumber)
}

func (r *AccountRepository) GetLatest(ctx context.Context) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id DESC LIMIT 1`
	return r.getOne(ctx, "get latest", query)
}

func (r *AccountRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(1) FROM accounts WHERE account_user_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		logger.Error("account repository count by user id failed", err, logger.Fields{
			"userId": userID,
		})
		return 0, fmt.Errorf("count accounts by user id: %w", err)
	}

	return count, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	logger.Info("account repository list by user id", logger.Fields{
		"userId": userID,
	})

	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE account_user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("account repository list by user id failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list accounts by user id: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) getOne(ctx context.Context, op string, query string, args ...any) (domain.Account, error) {
	logger.Info("account repository "+op, logger.Fields{
		"args": args,
	})

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, args...), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"args": args,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository "+op+" failed", err, logger.Fields{
			"args": args,
		})
		return domain.Account{}, fmt.Errorf("account %s: %w", op, err)
	}

	return account, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	var unregisteredAt sql.NullTime
	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.Status,
		&account.Balance,
		&account.RegisteredAt,
		&unregisteredAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return err
	}

	account.UnregisteredAt = nil
	if unregisteredAt.Valid {
		value := unregisteredAt.Time
		account.UnregisteredAt = &value
	}
	return nil
}
