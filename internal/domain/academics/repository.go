package academics

import (
	"context"

	"institute-app-go/internal/domain/admission"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	SaveBatch(ctx context.Context, batch *Batch) error
	// DeactivateBatch also deactivates every enrollment in the batch.
	DeactivateBatch(ctx context.Context, id string) (bool, error)
	ListBatches(ctx context.Context, includeInactive bool) ([]Batch, error)

	LockStudent(ctx context.Context, id string) (*admission.Student, error)
	GetActiveEnrollment(ctx context.Context, studentID, batchID string) (*Enrollment, error)
	// ListEnrolledBatches returns active enrollments in active batches.
	ListEnrolledBatches(ctx context.Context, studentID string) ([]EnrolledBatch, error)
	CreateEnrollment(ctx context.Context, enrollment *Enrollment) error
	DeactivateEnrollment(ctx context.Context, studentID, batchID string) (bool, error)
}
