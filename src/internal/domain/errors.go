package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeInternalServerError        ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrorCodeInvalidRequest             ErrorCode = "INVALID_REQUEST"
	ErrorCodeUserNotFound               ErrorCode = "USER_NOT_FOUND"
	ErrorCodeAccountNotFound            ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrorCodeAccountTransactionLock     ErrorCode = "ACCOUNT_TRANSACTION_LOCK"
	ErrorCodeTransactionNotFound        ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrorCodeAmountExceedBalance        ErrorCode = "AMOUNT_EXCEED_BALANCE"
	ErrorCodeTransactionAccountUnMatch  ErrorCode = "TRANSACTION_ACCOUNT_UN_MATCH"
	ErrorCodeCancelMustFully            ErrorCode = "CANCEL_MUST_FULLY"
	ErrorCodeTooOldOrderToCancel        ErrorCode = "TOO_OLD_ORDER_TO_CANCEL"
	ErrorCodeUserAccountUnMatch         ErrorCode = "USER_ACCOUNT_UN_MATCH"
	ErrorCodeMaxAccountPerUser10        ErrorCode = "MAX_ACCOUNT_PER_USER_10"
	ErrorCodeAccountAlreadyUnregistered ErrorCode = "ACCOUNT_ALREADY_UNREGISTERED"
	ErrorCodeBalanceNotEmpty            ErrorCode = "BALANCE_NOT_EMPTY"
)

var errorDescriptions = map[ErrorCode]string{
	ErrorCodeInternalServerError:        "Internal server error",
	ErrorCodeInvalidRequest:             "Invalid request",
	ErrorCodeUserNotFound:               "User not found",
	ErrorCodeAccountNotFound:            "Account not found",
	ErrorCodeAccountTransactionLock:     "Account is being used by another transaction",
	ErrorCodeTransactionNotFound:        "Transaction not found",
	ErrorCodeAmountExceedBalance:        "Transaction amount exceeds account balance",
	ErrorCodeTransactionAccountUnMatch:  "Transaction does not belong to this account",
	ErrorCodeCancelMustFully:            "Partial cancellation is not allowed",
	ErrorCodeTooOldOrderToCancel:        "Transactions older than one year cannot be cancelled",
	ErrorCodeUserAccountUnMatch:         "Account is not owned by this user",
	ErrorCodeMaxAccountPerUser10:        "A user can own at most 10 accounts",
	ErrorCodeAccountAlreadyUnregistered: "Account is already unregistered",
	ErrorCodeBalanceNotEmpty:            "Account balance is not empty",
}

func (c ErrorCode) Description() string {
	if d, ok := errorDescriptions[c]; ok {
		return d
	}
	return errorDescriptions[ErrorCodeInternalServerError]
}

// AccountError is a business failure carrying a stable code callers can
// branch on. Two AccountErrors match under errors.Is when their codes match.
type AccountError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewAccountError(code ErrorCode) *AccountError {
	return &AccountError{Code: code, Message: code.Description()}
}

// WrapAccountError attaches code to a lower level cause.
func WrapAccountError(code ErrorCode, err error) *AccountError {
	return &AccountError{Code: code, Message: code.Description(), Err: err}
}

func (e *AccountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

func (e *AccountError) Is(target error) bool {
	t, ok := target.(*AccountError)
	return ok && t.Code == e.Code
}

var (
	ErrUserNotFound               = NewAccountError(ErrorCodeUserNotFound)
	ErrAccountNotFound            = NewAccountError(ErrorCodeAccountNotFound)
	ErrAccountTransactionLock     = NewAccountError(ErrorCodeAccountTransactionLock)
	ErrTransactionNotFound        = NewAccountError(ErrorCodeTransactionNotFound)
	ErrAmountExceedBalance        = NewAccountError(ErrorCodeAmountExceedBalance)
	ErrTransactionAccountUnMatch  = NewAccountError(ErrorCodeTransactionAccountUnMatch)
	ErrCancelMustFully            = NewAccountError(ErrorCodeCancelMustFully)
	ErrTooOldOrderToCancel        = NewAccountError(ErrorCodeTooOldOrderToCancel)
	ErrUserAccountUnMatch         = NewAccountError(ErrorCodeUserAccountUnMatch)
	ErrMaxAccountPerUser10        = NewAccountError(ErrorCodeMaxAccountPerUser10)
	ErrAccountAlreadyUnregistered = NewAccountError(ErrorCodeAccountAlreadyUnregistered)
	ErrBalanceNotEmpty            = NewAccountError(ErrorCodeBalanceNotEmpty)
)

// CodeOf reports the business code carried by err, or INTERNAL_SERVER_ERROR
// when err is not an AccountError.
func CodeOf(err error) ErrorCode {
	var accountErr *AccountError
	if errors.As(err, &accountErr) {
		return accountErr.Code
	}
	return ErrorCodeInternalServerError
}
