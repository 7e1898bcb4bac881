package academics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	academicsdomain "institute-app-go/internal/domain/academics"
	admissiondomain "institute-app-go/internal/domain/admission"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(academicsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, batch *academicsdomain.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *PostgresRepository) GetBatch(ctx context.Context, id string) (*academicsdomain.Batch, error) {
	if uuid.Validate(id) != nil {
		return nil, academicsdomain.ErrBatchNotFound
	}
	var batch academicsdomain.Batch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, academicsdomain.ErrBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *PostgresRepository) SaveBatch(ctx context.Context, batch *academicsdomain.Batch) error {
	result := r.db.WithContext(ctx).
		Model(&academicsdomain.Batch{}).
		Where("id = ?", batch.ID).
		Updates(map[string]interface{}{
			"name":       batch.Name,
			"fee":        batch.Fee,
			"schedule":   batch.Schedule,
			"teacher_id": batch.TeacherID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return academicsdomain.ErrBatchNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateBatch(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&academicsdomain.Batch{}).
			Where("id = ?", id).
			Update("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		return tx.Model(&academicsdomain.Enrollment{}).
			Where("batch_id = ? AND is_active = ?", id, true).
			Update("is_active", false).Error
	})
	return found, err
}

func (r *PostgresRepository) ListBatches(ctx context.Context, includeInactive bool) ([]academicsdomain.Batch, error) {
	query := r.db.WithContext(ctx).Model(&academicsdomain.Batch{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var batches []academicsdomain.Batch
	if err := query.Order("created_at asc, id asc").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *PostgresRepository) LockStudent(ctx context.Context, id string) (*admissiondomain.Student, error) {
	if uuid.Validate(id) != nil {
		return nil, admissiondomain.ErrStudentNotFound
	}
	var student admissiondomain.Student
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admissiondomain.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *PostgresRepository) GetActiveEnrollment(ctx context.Context, studentID, batchID string) (*academicsdomain.Enrollment, error) {
	var enrollment academicsdomain.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND batch_id = ? AND is_active = ?", studentID, batchID, true).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, academicsdomain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *PostgresRepository) ListEnrolledBatches(ctx context.Context, studentID string) ([]academicsdomain.EnrolledBatch, error) {
	if uuid.Validate(studentID) != nil {
		return []academicsdomain.EnrolledBatch{}, nil
	}

	type enrolledRow struct {
		EnrollmentID string    `gorm:"column:enrollment_id"`
		StudentID    string    `gorm:"column:student_id"`
		BatchID      string    `gorm:"column:batch_id"`
		BatchName    string    `gorm:"column:batch_name"`
		Fee          int64     `gorm:"column:fee"`
		Schedule     string    `gorm:"column:schedule"`
		IsActive     bool      `gorm:"column:is_active"`
		EnrolledAt   time.Time `gorm:"column:enrolled_at"`
	}

	var rows []enrolledRow
	if err := r.db.WithContext(ctx).
		Table("enrollments").
		Select("enrollments.id AS enrollment_id, enrollments.student_id, enrollments.batch_id, batches.name AS batch_name, batches.fee, batches.schedule, enrollments.is_active, enrollments.enrolled_at").
		Joins("join batches on batches.id = enrollments.batch_id").
		Where("enrollments.student_id = ?", studentID).
		Where("enrollments.is_active = ? AND batches.is_active = ?", true, true).
		Order("enrollments.enrolled_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]academicsdomain.EnrolledBatch, 0, len(rows))
	for _, row := range rows {
		result = append(result, academicsdomain.EnrolledBatch{
			EnrollmentID: row.EnrollmentID,
			StudentID:    row.StudentID,
			BatchID:      row.BatchID,
			BatchName:    row.BatchName,
			Fee:          row.Fee,
			Schedule:     row.Schedule,
			IsActive:     row.IsActive,
			EnrolledAt:   row.EnrolledAt,
		})
	}
	return result, nil
}

func (r *PostgresRepository) CreateEnrollment(ctx context.Context, enrollment *academicsdomain.Enrollment) error {
	err := r.db.WithContext(ctx).Create(enrollment).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return academicsdomain.ErrAlreadyEnrolled
	}
	return err
}

func (r *PostgresRepository) DeactivateEnrollment(ctx context.Context, studentID, batchID string) (bool, error) {
	if uuid.Validate(studentID) != nil || uuid.Validate(batchID) != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&academicsdomain.Enrollment{}).
		Where("student_id = ? AND batch_id = ? AND is_active = ?", studentID, batchID, true).
		Update("is_active", false)
	return result.RowsAffected > 0, result.Error
}
