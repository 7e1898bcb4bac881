package ledger

import "errors"

var (
	ErrFamilyNotFound      = errors.New("family not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDirection    = errors.New("direction must be CREDIT or DEBIT")
	ErrInvalidCategory     = errors.New("unknown transaction category")
	ErrInvalidChannel      = errors.New("unknown payment channel")
	ErrFamilyRequired      = errors.New("family is required for this category")
	ErrInvalidReason       = errors.New("reason must be at least 5 characters")
	ErrAlreadyVoided       = errors.New("transaction already voided")
	ErrVoidForbidden       = errors.New("not permitted to void transactions")
	ErrInvalidFamilyName   = errors.New("family name is required")
	ErrInvalidPhone        = errors.New("phone is required")
	ErrPhoneTaken          = errors.New("phone already registered")
	ErrInvalidStatus       = errors.New("unknown family status")
	ErrDuplicateReceipt    = errors.New("receipt number already used")

	// ErrIntegrity aborts a unit of work whose balance update did not apply.
	ErrIntegrity = errors.New("ledger integrity violation")
)
