package academics

import "time"

type Batch struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Fee       int64     `gorm:"not null;default:0"`
	Schedule  string    `gorm:"not null;default:''"`
	TeacherID *string   `gorm:"type:text"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Enrollment struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	StudentID  string    `gorm:"type:uuid;index;not null"`
	BatchID    string    `gorm:"type:uuid;index;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	EnrolledAt time.Time `gorm:"autoCreateTime"`
}

// EnrolledBatch is an enrollment joined with its batch.
type EnrolledBatch struct {
	EnrollmentID string
	StudentID    string
	BatchID      string
	BatchName    string
	Fee          int64
	Schedule     string
	IsActive     bool
	EnrolledAt   time.Time
}

type CreateBatchInput struct {
	Name      string
	Fee       int64
	Schedule  string
	TeacherID *string
}

type UpdateBatchInput struct {
	Name      *string
	Fee       *int64
	Schedule  *string
	TeacherID *string
}

type EnrollResult struct {
	Enrollment Enrollment
	// Created is false when the student was already enrolled.
	Created bool
}
