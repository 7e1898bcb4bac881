package admission

import (
	"context"

	"institute-app-go/internal/domain/ledger"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Ledger is bound to the same store transaction as the receiver.
	Ledger() ledger.Repository
	CreateStudent(ctx context.Context, student *Student) error
	GetStudent(ctx context.Context, id string) (*Student, error)
	ListStudents(ctx context.Context, filter StudentFilter) ([]Student, error)
	// DeactivateStudent also deactivates the student's enrollments.
	DeactivateStudent(ctx context.Context, id string) (bool, error)
}
