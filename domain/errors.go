package domain

import "fmt"

type DomainError struct {
	message string
}

func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	return e.message
}

// Error taxonomy. Input-validation and authorization errors are raised before
// any state mutation or external call; limit violations after computing the
// would-be effect but before mutating; external-dependency errors after the
// external call, with the whole operation aborted as a unit. Every failure
// leaves zero observable state change.
var (
	// Input validation.
	ErrAmountMustBePositive = NewDomainError("amount must be greater than zero")
	ErrAssetNotSupported    = NewDomainError("asset not supported")
	ErrInvalidPriceSource   = NewDomainError("invalid price source")

	// Limit violations.
	ErrBankCapExceeded         = NewDomainError("bank cap exceeded")
	ErrWithdrawalLimitExceeded = NewDomainError("withdrawal limit exceeded")
	ErrInsufficientBalance     = NewDomainError("insufficient balance")

	// External dependencies.
	ErrInvalidPriceData = NewDomainError("invalid price data")
	ErrTransferFailed   = NewDomainError("asset transfer failed")
	ErrSwapBelowMinimum = NewDomainError("swap output below minimum")

	// Administration.
	ErrNotOwner              = NewDomainError("caller is not the owner")
	ErrAssetAlreadySupported = NewDomainError("asset already supported")

	// Arithmetic.
	ErrAmountOverflow = NewDomainError("amount overflow")
)
