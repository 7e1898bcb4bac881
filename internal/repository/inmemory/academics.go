package inmemory

import (
	"context"
	"fmt"
	"time"

	"institute-app-go/internal/domain/academics"
	"institute-app-go/internal/domain/admission"
)

var _ academics.Repository = (*AcademicsRepository)(nil)

type AcademicsRepository struct {
	s *session
}

func (r *AcademicsRepository) Transaction(ctx context.Context, fn func(academics.Repository) error) error {
	return r.s.transaction(func(tx *session) error {
		return fn(&AcademicsRepository{s: tx})
	})
}

func (r *AcademicsRepository) CreateBatch(ctx context.Context, batch *academics.Batch) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.batches[batch.ID]; ok {
			return fmt.Errorf("inmemory: batch %s already exists", batch.ID)
		}
		now := r.s.now()
		batch.CreatedAt, batch.UpdatedAt = now, now
		d.batches[batch.ID] = *batch
		d.track(batch.ID)
		return nil
	})
}

func (r *AcademicsRepository) GetBatch(ctx context.Context, id string) (*academics.Batch, error) {
	var batch academics.Batch
	err := r.s.read(func(d *dataset) error {
		b, ok := d.batches[id]
		if !ok {
			return academics.ErrBatchNotFound
		}
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *AcademicsRepository) SaveBatch(ctx context.Context, batch *academics.Batch) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.batches[batch.ID]; !ok {
			return academics.ErrBatchNotFound
		}
		batch.UpdatedAt = r.s.now()
		d.batches[batch.ID] = *batch
		return nil
	})
}

func (r *AcademicsRepository) DeactivateBatch(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.s.write(func(d *dataset) error {
		batch, ok := d.batches[id]
		if !ok {
			return nil
		}
		found = true
		batch.IsActive = false
		batch.UpdatedAt = r.s.now()
		d.batches[id] = batch

		for enrollmentID, e := range d.enrollments {
			if e.BatchID == id && e.IsActive {
				e.IsActive = false
				d.enrollments[enrollmentID] = e
			}
		}
		return nil
	})
	return found, err
}

func (r *AcademicsRepository) ListBatches(ctx context.Context, includeInactive bool) ([]academics.Batch, error) {
	var batches []academics.Batch
	err := r.s.read(func(d *dataset) error {
		for _, b := range d.batches {
			if b.IsActive || includeInactive {
				batches = append(batches, b)
			}
		}
		sortByCreated(batches, d,
			func(b academics.Batch) string { return b.ID },
			func(b academics.Batch) time.Time { return b.CreatedAt })
		return nil
	})
	return batches, err
}

// LockStudent is a plain read: transactions are already serialized.
func (r *AcademicsRepository) LockStudent(ctx context.Context, id string) (*admission.Student, error) {
	return (&AdmissionRepository{s: r.s}).GetStudent(ctx, id)
}

func (r *AcademicsRepository) GetActiveEnrollment(ctx context.Context, studentID, batchID string) (*academics.Enrollment, error) {
	var enrollment academics.Enrollment
	err := r.s.read(func(d *dataset) error {
		for _, e := range d.enrollments {
			if e.StudentID == studentID && e.BatchID == batchID && e.IsActive {
				enrollment = e
				return nil
			}
		}
		return academics.ErrEnrollmentNotFound
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *AcademicsRepository) ListEnrolledBatches(ctx context.Context, studentID string) ([]academics.EnrolledBatch, error) {
	var result []academics.EnrolledBatch
	err := r.s.read(func(d *dataset) error {
		for _, e := range d.enrollments {
			if e.StudentID != studentID || !e.IsActive {
				continue
			}
			batch, ok := d.batches[e.BatchID]
			if !ok || !batch.IsActive {
				continue
			}
			result = append(result, academics.EnrolledBatch{
				EnrollmentID: e.ID,
				StudentID:    e.StudentID,
				BatchID:      batch.ID,
				BatchName:    batch.Name,
				Fee:          batch.Fee,
				Schedule:     batch.Schedule,
				IsActive:     e.IsActive,
				EnrolledAt:   e.EnrolledAt,
			})
		}
		sortByCreated(result, d,
			func(e academics.EnrolledBatch) string { return e.EnrollmentID },
			func(e academics.EnrolledBatch) time.Time { return e.EnrolledAt })
		return nil
	})
	return result, err
}

func (r *AcademicsRepository) CreateEnrollment(ctx context.Context, enrollment *academics.Enrollment) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.students[enrollment.StudentID]; !ok {
			return admission.ErrStudentNotFound
		}
		if _, ok := d.batches[enrollment.BatchID]; !ok {
			return academics.ErrBatchNotFound
		}
		for _, e := range d.enrollments {
			if e.IsActive && e.StudentID == enrollment.StudentID && e.BatchID == enrollment.BatchID {
				return academics.ErrAlreadyEnrolled
			}
		}
		enrollment.EnrolledAt = r.s.now()
		d.enrollments[enrollment.ID] = *enrollment
		d.track(enrollment.ID)
		return nil
	})
}

func (r *AcademicsRepository) DeactivateEnrollment(ctx context.Context, studentID, batchID string) (bool, error) {
	found := false
	err := r.s.write(func(d *dataset) error {
		for id, e := range d.enrollments {
			if e.StudentID == studentID && e.BatchID == batchID && e.IsActive {
				e.IsActive = false
				d.enrollments[id] = e
				found = true
			}
		}
		return nil
	})
	return found, err
}
