package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	ledgerdomain "institute-app-go/internal/domain/ledger"
)

// Day counters expire three days after their last use.
const receiptKeyTTL = 72 * time.Hour

// ReceiptGenerator numbers receipts with one INCR counter per prefix and day.
type ReceiptGenerator struct {
	client goredis.Cmdable
	prefix string
	now    func() time.Time
}

func NewReceiptGenerator(client goredis.Cmdable, prefix string) *ReceiptGenerator {
	return &ReceiptGenerator{client: client, prefix: prefix, now: time.Now}
}

func (g *ReceiptGenerator) NextReceiptNumber(ctx context.Context) (string, error) {
	day := ledgerdomain.ReceiptDay(g.now())
	key := receiptKey(g.prefix, day)

	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, receiptKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("receipts: incr %s: %w", key, err)
	}

	return ledgerdomain.FormatReceiptNumber(g.prefix, day, incr.Val()), nil
}

func receiptKey(prefix, day string) string {
	return fmt.Sprintf("receipts:%s:%s", prefix, day)
}
