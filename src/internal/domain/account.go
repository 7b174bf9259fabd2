package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive       AccountStatus = "ACTIVE"
	AccountStatusUnregistered AccountStatus = "UNREGISTERED"
)

// FirstAccountNumber is issued when no account exists yet; later accounts
// take the latest account number plus one.
const FirstAccountNumber = "1000000000"

// MaxAccountsPerUser caps how many accounts a single user may open.
const MaxAccountsPerUser = 10

type Account struct {
	ID             int64
	UserID         int64
	AccountNumber  string
	Status         AccountStatus
	Balance        int64
	RegisteredAt   time.Time
	UnregisteredAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Use debits amount from the balance. The balance is left untouched when the
// amount exceeds it.
func (a *Account) Use(amount int64) error {
	if amount > a.Balance {
		return ErrAmountExceedBalance
	}
	a.Balance -= amount
	return nil
}

// Cancel credits amount back to the balance.
func (a *Account) Cancel(amount int64) {
	a.Balance += amount
}

func (a *Account) Unregister(at time.Time) {
	a.Status = AccountStatusUnregistered
	a.UnregisteredAt = &at
}
