package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-balance-service/src/internal/commons"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/logger"
)

const maxAccountNumberAttempts = 5

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	userRepo    repo_interfaces.UserRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository, userRepo repo_interfaces.UserRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, userID int64, initialBalance int64) (domain.Account, error) {
	logger.Info("account service create account request", logger.Fields{
		"userId":         userID,
		"initialBalance": initialBalance,
	})

	if initialBalance < 0 {
		err := domain.WrapAccountError(domain.ErrorCodeInvalidRequest, fmt.Errorf("initialBalance cannot be negative"))
		logger.Error("account service create account validation failed", err, nil)
		return domain.Account{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		err = notFound(err, domain.ErrUserNotFound, "get user")
		logger.Error("account service create account user lookup failed", err, logger.Fields{
			"userId": userID,
		})
		return domain.Account{}, err
	}

	count, err := s.accountRepo.CountByUserID(ctx, userID)
	if err != nil {
		logger.Error("account service create account count failed", err, logger.Fields{
			"userId": userID,
		})
		return domain.Account{}, fmt.Errorf("count accounts: %w", err)
	}
	if count >= domain.MaxAccountsPerUser {
		logger.Error("account service create account limit reached", domain.ErrMaxAccountPerUser10, logger.Fields{
			"userId": userID,
			"count":  count,
		})
		return domain.Account{}, domain.ErrMaxAccountPerUser10
	}

	var created domain.Account
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		accountNumber, err := s.nextAccountNumber(ctx)
		if err != nil {
			logger.Error("account service create account number generation failed", err, logger.Fields{
				"userId": userID,
			})
			return domain.Account{}, err
		}

		created, err = s.accountRepo.Save(ctx, domain.Account{
			UserID:        userID,
			AccountNumber: accountNumber,
			Status:        domain.AccountStatusActive,
			Balance:       initialBalance,
			RegisteredAt:  time.Now().UTC(),
		})
		if err == nil {
			break
		}
		if errors.Is(err, commons.ErrDuplicateRecord) && attempt < maxAccountNumberAttempts-1 {
			logger.Info("account service create account number collision, retrying", logger.Fields{
				"accountNumber": accountNumber,
				"attempt":       attempt + 1,
			})
			continue
		}

		logger.Error("account service create account repository failed", err, logger.Fields{
			"userId":        userID,
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"userId":        created.UserID,
	})

	return created, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (domain.Account, error) {
	fields := logger.Fields{
		"userId":        userID,
		"accountNumber": accountNumber,
	}
	logger.Info("account service delete account request", fields)

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		err = notFound(err, domain.ErrUserNotFound, "get user")
		logger.Error("account service delete account user lookup failed", err, fields)
		return domain.Account{}, err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		err = notFound(err, domain.ErrAccountNotFound, "get account")
		logger.Error("account service delete account lookup failed", err, fields)
		return domain.Account{}, err
	}

	var rejection error
	switch {
	case account.UserID != userID:
		rejection = domain.ErrUserAccountUnMatch
	case account.Status == domain.AccountStatusUnregistered:
		rejection = domain.ErrAccountAlreadyUnregistered
	case account.Balance > 0:
		rejection = domain.ErrBalanceNotEmpty
	}
	if rejection != nil {
		logger.Error("account service delete account rejected", rejection, fields)
		return domain.Account{}, rejection
	}

	account.Unregister(time.Now().UTC())
	saved, err := s.accountRepo.Save(ctx, account)
	if err != nil {
		logger.Error("account service delete account save failed", err, fields)
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	logger.Info("account service delete account success", logger.Fields{
		"accountId":     saved.ID,
		"accountNumber": saved.AccountNumber,
	})

	return saved, nil
}

func (s *AccountService) GetAccountsByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	logger.Info("account service get accounts by user id request", logger.Fields{
		"userId": userID,
	})

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		err = notFound(err, domain.ErrUserNotFound, "get user")
		logger.Error("account service get accounts by user id user lookup failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, err
	}

	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		logger.Error("account service get accounts by user id failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	logger.Info("account service get accounts by user id success", logger.Fields{
		"userId": userID,
		"count":  len(accounts),
	})

	return accounts, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	logger.Info("account service get account request", logger.Fields{
		"accountId": id,
	})

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		err = notFound(err, domain.ErrAccountNotFound, "get account")
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, err
	}

	logger.Info("account service get account success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

// nextAccountNumber returns the latest issued account number plus one.
func (s *AccountService) nextAccountNumber(ctx context.Context) (string, error) {
	latest, err := s.accountRepo.GetLatest(ctx)
	if errors.Is(err, commons.ErrRecordNotFound) {
		return domain.FirstAccountNumber, nil
	}
	if err != nil {
		return "", fmt.Errorf("get latest account: %w", err)
	}

	number, err := strconv.ParseInt(latest.AccountNumber, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse account number %q: %w", latest.AccountNumber, err)
	}

	return strconv.FormatInt(number+1, 10), nil
}
