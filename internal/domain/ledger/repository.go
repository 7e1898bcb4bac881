package ledger

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetFamily(ctx context.Context, id string) (*Family, error)
	GetFamilyByPhone(ctx context.Context, phone string) (*Family, error)
	// LockFamily reads the family row and holds it until the transaction ends.
	LockFamily(ctx context.Context, id string) (*Family, error)
	CreateFamily(ctx context.Context, family *Family) error
	UpdateFamily(ctx context.Context, id string, name, phone string) error
	SetFamilyStatus(ctx context.Context, id, status string) (bool, error)
	ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, error)
	// AdjustBalance applies balance = balance + delta in the store and returns
	// the new balance.
	AdjustBalance(ctx context.Context, familyID string, delta int64) (int64, error)

	CreateTransaction(ctx context.Context, txn *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	LockTransaction(ctx context.Context, id string) (*Transaction, error)
	// MarkVoided flips is_void only when it is still false.
	MarkVoided(ctx context.Context, id, description string, voidedBy *string, voidedAt time.Time) (bool, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	SumActiveTransactions(ctx context.Context, familyID string) (int64, error)

	ListActiveStudentFees(ctx context.Context, familyID string) ([]StudentFee, error)
	// ActiveEnrollmentFees sums, per student, the fees of active enrollments in
	// active batches.
	ActiveEnrollmentFees(ctx context.Context, studentIDs []string) (map[string]int64, error)
}

// ReceiptGenerator hands out a unique receipt number per payment.
type ReceiptGenerator interface {
	NextReceiptNumber(ctx context.Context) (string, error)
}

// VoidGate decides whether the caller may void. It runs before anything is read.
type VoidGate func(ctx context.Context, req VoidRequest) error
