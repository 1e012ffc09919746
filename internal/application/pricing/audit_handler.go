package pricing

import (
	"context"
	"fmt"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"go.uber.org/zap"
)

// QuoteAuditHandler forwards quote events to an AuditSink
type QuoteAuditHandler struct {
	sink   pricing.AuditSink
	logger *zap.Logger
}

// NewQuoteAuditHandler creates a new QuoteAuditHandler
func NewQuoteAuditHandler(sink pricing.AuditSink, logger *zap.Logger) *QuoteAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteAuditHandler{sink: sink, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *QuoteAuditHandler) EventTypes() []string {
	return []string{pricing.EventTypeQuoteComputed}
}

// Handle implements shared.EventHandler
func (h *QuoteAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*pricing.QuoteComputedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	record := e.AuditRecord()
	if err := h.sink.Record(ctx, record); err != nil {
		return fmt.Errorf("record quote audit: %w", err)
	}
	h.logger.Debug("Quote audit recorded", zap.String("event_id", record.EventID.String()))
	return nil
}

// LogAuditSink writes audit records to the structured log
type LogAuditSink struct {
	logger *zap.Logger
}

// NewLogAuditSink creates a sink over logger
func NewLogAuditSink(logger *zap.Logger) *LogAuditSink {
	return &LogAuditSink{logger: logger.Named("quote_audit")}
}

// Record implements pricing.AuditSink
func (s *LogAuditSink) Record(_ context.Context, r pricing.AuditRecord) error {
	s.logger.Info("Quote computed",
		zap.String("event_id", r.EventID.String()),
		zap.String("price_list_id", r.PriceListID.String()),
		zap.String("entry_id", r.EntryID.String()),
		zap.String("caller_tenant_id", r.CallerTenantID.String()),
		zap.String("matched_zone", r.MatchedZone),
		zap.Bool("fallback_used", r.FallbackUsed),
		zap.Time("timestamp", r.Timestamp),
	)
	return nil
}

var (
	_ shared.EventHandler = (*QuoteAuditHandler)(nil)
	_ pricing.AuditSink   = (*LogAuditSink)(nil)
)
