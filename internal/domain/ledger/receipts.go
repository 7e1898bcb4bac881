package ledger

import (
	"fmt"
	"time"
)

const receiptDayLayout = "20060102"

// ReceiptDay is the per-day counter key, e.g. 20260315.
func ReceiptDay(t time.Time) string {
	return t.Format(receiptDayLayout)
}

// FormatReceiptNumber renders PREFIX-YYYYMMDD-NNNN.
func FormatReceiptNumber(prefix, day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}
