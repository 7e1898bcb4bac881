package admission

import "errors"

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrFeeNotConfigured   = errors.New("no monthly fee configured for class")
	ErrInvalidStudentName = errors.New("student name is required")
	ErrInvalidClassName   = errors.New("class name is required")
	ErrNegativeOverride   = errors.New("fee override must not be negative")
	ErrNegativeCharge     = errors.New("initial charge must not be negative")
)
