package inmemory

import (
	"context"
	"sync"
	"time"

	"institute-app-go/internal/domain/ledger"
)

var _ ledger.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator numbers receipts per day in process memory.
type ReceiptGenerator struct {
	mu       sync.Mutex
	prefix   string
	counters map[string]int64
	now      func() time.Time
}

func NewReceiptGenerator(prefix string) *ReceiptGenerator {
	return &ReceiptGenerator{
		prefix:   prefix,
		counters: make(map[string]int64),
		now:      time.Now,
	}
}

func (g *ReceiptGenerator) NextReceiptNumber(ctx context.Context) (string, error) {
	day := ledger.ReceiptDay(g.now())

	g.mu.Lock()
	g.counters[day]++
	seq := g.counters[day]
	g.mu.Unlock()

	return ledger.FormatReceiptNumber(g.prefix, day, seq), nil
}
