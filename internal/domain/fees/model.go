package fees

import "time"

type FeeStructure struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	ClassName    string    `gorm:"not null"`
	Session      string    `gorm:"not null;default:''"`
	MonthlyFee   int64     `gorm:"not null"`
	AdmissionFee int64     `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type CreateStructureInput struct {
	ClassName    string
	Session      string
	MonthlyFee   int64
	AdmissionFee int64
}
