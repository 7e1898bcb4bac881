package fees

import "errors"

var (
	ErrStructureNotFound = errors.New("fee structure not found")
	ErrInvalidClassName  = errors.New("class name is required")
	ErrNegativeFee       = errors.New("fee must not be negative")
	ErrDuplicateActive   = errors.New("an active fee structure already exists for this class and session")
)
