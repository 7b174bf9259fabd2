package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-balance-service/src/internal/domain"
)

type BalanceLedger interface {
	// ApplyBalanceChange stores account's new balance and records transaction
	// as one unit. On error neither write is visible.
	ApplyBalanceChange(ctx context.Context, account domain.Account, transaction domain.Transaction) (domain.Account, domain.Transaction, error)
}
