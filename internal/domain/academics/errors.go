package academics

import (
	"errors"
	"fmt"
)

var (
	ErrBatchNotFound      = errors.New("batch not found")
	ErrBatchInactive      = errors.New("batch is not active")
	ErrStudentInactive    = errors.New("student is not active")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidBatchName   = errors.New("batch name is required")
	ErrNegativeFee        = errors.New("batch fee must not be negative")
	ErrScheduleConflict   = errors.New("time conflict")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in batch")
)

// ConflictError names the enrolled batch whose schedule overlaps the candidate.
type ConflictError struct {
	BatchID   string
	BatchName string
	Schedule  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with %s (%s)", e.BatchName, e.Schedule)
}

func (e *ConflictError) Unwrap() error {
	return ErrScheduleConflict
}
