package receipts

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	ledgerdomain "institute-app-go/internal/domain/ledger"
)

type receiptSequence struct {
	Prefix string `gorm:"primaryKey"`
	Day    string `gorm:"primaryKey;type:char(8)"`
	Value  int64  `gorm:"not null"`
}

func (receiptSequence) TableName() string {
	return "receipt_sequences"
}

// PostgresGenerator keeps one counter row per prefix and day.
type PostgresGenerator struct {
	db     *gorm.DB
	prefix string
	now    func() time.Time
}

func NewPostgres(db *gorm.DB, prefix string) *PostgresGenerator {
	return &PostgresGenerator{db: db, prefix: prefix, now: time.Now}
}

func (g *PostgresGenerator) NextReceiptNumber(ctx context.Context) (string, error) {
	seq := receiptSequence{
		Prefix: g.prefix,
		Day:    ledgerdomain.ReceiptDay(g.now()),
		Value:  1,
	}

	err := g.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "prefix"}, {Name: "day"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"value": gorm.Expr("receipt_sequences.value + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "value"}}},
		).
		Create(&seq).Error
	if err != nil {
		return "", fmt.Errorf("receipts: next sequence: %w", err)
	}

	return ledgerdomain.FormatReceiptNumber(g.prefix, seq.Day, seq.Value), nil
}
