package inmemory

import (
	"context"
	"fmt"
	"time"

	"institute-app-go/internal/domain/admission"
	"institute-app-go/internal/domain/ledger"
)

var _ admission.Repository = (*AdmissionRepository)(nil)

type AdmissionRepository struct {
	s *session
}

func (r *AdmissionRepository) Transaction(ctx context.Context, fn func(admission.Repository) error) error {
	return r.s.transaction(func(tx *session) error {
		return fn(&AdmissionRepository{s: tx})
	})
}

func (r *AdmissionRepository) Ledger() ledger.Repository {
	return &LedgerRepository{s: r.s}
}

func (r *AdmissionRepository) CreateStudent(ctx context.Context, student *admission.Student) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.students[student.ID]; ok {
			return fmt.Errorf("inmemory: student %s already exists", student.ID)
		}
		if _, ok := d.families[student.FamilyID]; !ok {
			return ledger.ErrFamilyNotFound
		}
		now := r.s.now()
		student.CreatedAt, student.UpdatedAt = now, now
		d.students[student.ID] = *student
		d.track(student.ID)
		return nil
	})
}

func (r *AdmissionRepository) GetStudent(ctx context.Context, id string) (*admission.Student, error) {
	var student admission.Student
	err := r.s.read(func(d *dataset) error {
		s, ok := d.students[id]
		if !ok {
			return admission.ErrStudentNotFound
		}
		student = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *AdmissionRepository) ListStudents(ctx context.Context, filter admission.StudentFilter) ([]admission.Student, error) {
	var students []admission.Student
	err := r.s.read(func(d *dataset) error {
		for _, s := range d.students {
			if filter.FamilyID != "" && s.FamilyID != filter.FamilyID {
				continue
			}
			if !s.IsActive && !filter.IncludeInactive {
				continue
			}
			students = append(students, s)
		}
		sortStudents(students, d)
		return nil
	})
	return students, err
}

func (r *AdmissionRepository) DeactivateStudent(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.s.write(func(d *dataset) error {
		student, ok := d.students[id]
		if !ok {
			return nil
		}
		found = true
		student.IsActive = false
		student.UpdatedAt = r.s.now()
		d.students[id] = student

		for enrollmentID, e := range d.enrollments {
			if e.StudentID == id && e.IsActive {
				e.IsActive = false
				d.enrollments[enrollmentID] = e
			}
		}
		return nil
	})
	return found, err
}

func activeStudents(d *dataset, familyID string) []admission.Student {
	var students []admission.Student
	for _, s := range d.students {
		if s.FamilyID == familyID && s.IsActive {
			students = append(students, s)
		}
	}
	sortStudents(students, d)
	return students
}

func sortStudents(students []admission.Student, d *dataset) {
	sortByCreated(students, d,
		func(s admission.Student) string { return s.ID },
		func(s admission.Student) time.Time { return s.CreatedAt })
}
