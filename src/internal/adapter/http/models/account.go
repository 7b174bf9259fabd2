package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	UserID         int64           `json:"userId"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if r.UserID < 1 {
		errs = append(errs, "userId must be at least 1")
	}
	if !r.InitialBalance.IsInteger() {
		errs = append(errs, "initialBalance must be a whole number")
	} else if r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	} else if r.InitialBalance.GreaterThan(MaxInitialBalance) {
		errs = append(errs, "initialBalance must not exceed "+MaxInitialBalance.String())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CreateAccountResponse struct {
	UserID        int64  `json:"userId"`
	AccountNumber string `json:"accountNumber"`
	RegisteredAt  string `json:"registeredAt"`
}

type DeleteAccountRequest struct {
	UserID        int64  `json:"userId"`
	AccountNumber string `json:"accountNumber"`
}

func (r DeleteAccountRequest) Validate() error {
	var errs []string

	if r.UserID < 1 {
		errs = append(errs, "userId must be at least 1")
	}
	if !isTenDigits(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 10 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type DeleteAccountResponse struct {
	UserID         int64  `json:"userId"`
	AccountNumber  string `json:"accountNumber"`
	UnregisteredAt string `json:"unregisteredAt"`
}

type AccountInfo struct {
	AccountNumber string `json:"accountNumber"`
	Balance       int64  `json:"balance"`
}

type GetAccountResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	AccountNumber  string `json:"accountNumber"`
	Status         string `json:"status"`
	Balance        int64  `json:"balance"`
	RegisteredAt   string `json:"registeredAt"`
	UnregisteredAt string `json:"unregisteredAt,omitempty"`
}
