package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
)

// DefaultAuditStream is the stream quote audits are appended to
const DefaultAuditStream = "pricing:quotes"

// RedisAuditSink appends quote audit records to a Redis stream so that
// downstream consumers (billing, analytics) can follow them with XREAD
type RedisAuditSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewRedisAuditSink creates a sink writing to stream. maxLen > 0 caps the
// stream approximately at that many entries.
func NewRedisAuditSink(client redis.Cmdable, stream string, maxLen int64) *RedisAuditSink {
	if stream == "" {
		stream = DefaultAuditStream
	}
	return &RedisAuditSink{client: client, stream: stream, maxLen: maxLen}
}

// Record implements pricing.AuditSink
func (s *RedisAuditSink) Record(ctx context.Context, r pricing.AuditRecord) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		ID:     "*",
		Values: auditValues(r),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append quote audit to %s: %w", s.stream, err)
	}
	return nil
}

func auditValues(r pricing.AuditRecord) map[string]any {
	return map[string]any{
		"event_id":         r.EventID.String(),
		"price_list_id":    r.PriceListID.String(),
		"entry_id":         r.EntryID.String(),
		"caller_tenant_id": r.CallerTenantID.String(),
		"matched_zone":     r.MatchedZone,
		"fallback_used":    strconv.FormatBool(r.FallbackUsed),
		"timestamp":        r.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

var _ pricing.AuditSink = (*RedisAuditSink)(nil)
