package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type UseBalanceRequest struct {
	UserID        int64           `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r UseBalanceRequest) Validate() error {
	var errs []string

	if r.UserID < 1 {
		errs = append(errs, "userId must be at least 1")
	}
	if !isTenDigits(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 10 digits")
	}
	if msg := validateAmount("amount", r.Amount); msg != "" {
		errs = append(errs, msg)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type UseBalanceResponse struct {
	AccountNumber     string `json:"accountNumber"`
	TransactionResult string `json:"transactionResult"`
	TransactionID     string `json:"transactionId"`
	Amount            int64  `json:"amount"`
	BalanceSnapshot   int64  `json:"balanceSnapshot"`
	TransactedAt      string `json:"transactedAt"`
}

type CancelBalanceRequest struct {
	TransactionID string          `json:"transactionId"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r CancelBalanceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}
	if !isTenDigits(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 10 digits")
	}
	if msg := validateAmount("amount", r.Amount); msg != "" {
		errs = append(errs, msg)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CancelBalanceResponse struct {
	AccountNumber     string `json:"accountNumber"`
	TransactionResult string `json:"transactionResult"`
	TransactionID     string `json:"transactionId"`
	Amount            int64  `json:"amount"`
	BalanceSnapshot   int64  `json:"balanceSnapshot"`
	TransactedAt      string `json:"transactedAt"`
}

type QueryTransactionResponse struct {
	AccountNumber     string `json:"accountNumber"`
	TransactionType   string `json:"transactionType"`
	TransactionResult string `json:"transactionResult"`
	TransactionID     string `json:"transactionId"`
	Amount            int64  `json:"amount"`
	TransactedAt      string `json:"transactedAt"`
}
