package academics

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"institute-app-go/internal/domain/schedule"
	"institute-app-go/pkg/logger"
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) CreateBatch(ctx context.Context, input CreateBatchInput) (*Batch, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidBatchName
	}
	if input.Fee < 0 {
		return nil, ErrNegativeFee
	}

	batch := Batch{
		ID:        uuid.NewString(),
		Name:      name,
		Fee:       input.Fee,
		Schedule:  strings.TrimSpace(input.Schedule),
		TeacherID: trimmed(input.TeacherID),
		IsActive:  true,
	}
	if err := s.repo.CreateBatch(ctx, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (s *Service) GetBatch(ctx context.Context, id string) (*Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

func (s *Service) ListBatches(ctx context.Context, includeInactive bool) ([]Batch, error) {
	return s.repo.ListBatches(ctx, includeInactive)
}

// UpdateBatch changes batch details. Existing enrollments are not re-checked
// against a new schedule.
func (s *Service) UpdateBatch(ctx context.Context, id string, input UpdateBatchInput) (*Batch, error) {
	var result Batch
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		batch, err := tx.GetBatch(ctx, id)
		if err != nil {
			return err
		}
		if !batch.IsActive {
			return ErrBatchInactive
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrInvalidBatchName
			}
			batch.Name = name
		}
		if input.Fee != nil {
			if *input.Fee < 0 {
				return ErrNegativeFee
			}
			batch.Fee = *input.Fee
		}
		if input.Schedule != nil {
			batch.Schedule = strings.TrimSpace(*input.Schedule)
		}
		if input.TeacherID != nil {
			batch.TeacherID = trimmed(input.TeacherID)
		}

		if err := tx.SaveBatch(ctx, batch); err != nil {
			return err
		}
		result = *batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBatch retires the batch and ends its enrollments.
func (s *Service) DeleteBatch(ctx context.Context, id string) error {
	ok, err := s.repo.DeactivateBatch(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBatchNotFound
	}
	s.log.Info("academics.batch: deactivated", "batch_id", id)
	return nil
}

// Enroll adds the student to the batch unless the batch schedule overlaps one
// the student already attends. Enrolling twice returns the existing enrollment.
func (s *Service) Enroll(ctx context.Context, studentID, batchID string) (*EnrollResult, error) {
	var result EnrollResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		student, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if !student.IsActive {
			return ErrStudentInactive
		}

		batch, err := tx.GetBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if !batch.IsActive {
			return ErrBatchInactive
		}

		existing, err := tx.GetActiveEnrollment(ctx, studentID, batchID)
		if err == nil {
			result = EnrollResult{Enrollment: *existing}
			return nil
		}
		if !errors.Is(err, ErrEnrollmentNotFound) {
			return err
		}

		enrolled, err := tx.ListEnrolledBatches(ctx, studentID)
		if err != nil {
			return err
		}
		if conflict := findConflict(batch, enrolled); conflict != nil {
			return conflict
		}

		enrollment := Enrollment{
			ID:        uuid.NewString(),
			StudentID: studentID,
			BatchID:   batchID,
			IsActive:  true,
		}
		if err := tx.CreateEnrollment(ctx, &enrollment); err != nil {
			return err
		}
		result = EnrollResult{Enrollment: enrollment, Created: true}
		return nil
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.log.BusinessError("academics.enroll: schedule conflict", err,
				"student_id", studentID, "batch_id", batchID, "conflicting_batch_id", conflict.BatchID)
		}
		return nil, err
	}
	return &result, nil
}

func (s *Service) Unenroll(ctx context.Context, studentID, batchID string) error {
	ok, err := s.repo.DeactivateEnrollment(ctx, studentID, batchID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (s *Service) ListStudentEnrollments(ctx context.Context, studentID string) ([]EnrolledBatch, error) {
	return s.repo.ListEnrolledBatches(ctx, studentID)
}

// CheckSchedule exposes the conflict check without touching any enrollment.
func (s *Service) CheckSchedule(candidate string, existing []string) schedule.Result {
	return schedule.HasConflict(candidate, existing)
}

func findConflict(batch *Batch, enrolled []EnrolledBatch) *ConflictError {
	others := make([]EnrolledBatch, 0, len(enrolled))
	descriptors := make([]string, 0, len(enrolled))
	for _, e := range enrolled {
		if e.BatchID == batch.ID || strings.TrimSpace(e.Schedule) == "" {
			continue
		}
		others = append(others, e)
		descriptors = append(descriptors, e.Schedule)
	}

	result := schedule.HasConflict(batch.Schedule, descriptors)
	if !result.Conflict {
		return nil
	}
	for _, e := range others {
		if e.Schedule == result.With {
			return &ConflictError{BatchID: e.BatchID, BatchName: e.BatchName, Schedule: e.Schedule}
		}
	}
	return &ConflictError{Schedule: result.With}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
