package pricing

import (
	"context"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypePriceList = "PriceList"

	EventTypeQuoteComputed = "pricing.quote.computed"
)

// QuoteComputedEvent is the audit record of one successful quote
type QuoteComputedEvent struct {
	shared.BaseDomainEvent
	PriceListID    uuid.UUID `json:"price_list_id"`
	EntryID        uuid.UUID `json:"entry_id"`
	CallerTenantID uuid.UUID `json:"caller_tenant_id"`
	MatchedZone    string    `json:"matched_zone"`
	FallbackUsed   bool      `json:"fallback_used"`
}

// NewQuoteComputedEvent builds the audit event for a quote computed at `at`
func NewQuoteComputedEvent(listID, entryID, caller uuid.UUID, zone string, fallback bool, at time.Time) *QuoteComputedEvent {
	return &QuoteComputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteComputed, AggregateTypePriceList, listID, caller, at),
		PriceListID:     listID,
		EntryID:         entryID,
		CallerTenantID:  caller,
		MatchedZone:     zone,
		FallbackUsed:    fallback,
	}
}

// AuditRecord is what the audit collaborator receives for every quote
type AuditRecord struct {
	EventID        uuid.UUID `json:"event_id"`
	PriceListID    uuid.UUID `json:"price_list_id"`
	EntryID        uuid.UUID `json:"entry_id"`
	CallerTenantID uuid.UUID `json:"caller_tenant_id"`
	MatchedZone    string    `json:"matched_zone"`
	FallbackUsed   bool      `json:"fallback_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// AuditRecord extracts the audit record carried by the event
func (e *QuoteComputedEvent) AuditRecord() AuditRecord {
	return AuditRecord{
		EventID:        e.EventID(),
		PriceListID:    e.PriceListID,
		EntryID:        e.EntryID,
		CallerTenantID: e.CallerTenantID,
		MatchedZone:    e.MatchedZone,
		FallbackUsed:   e.FallbackUsed,
		Timestamp:      e.OccurredAt(),
	}
}

// AuditSink stores or forwards quote audit records
type AuditSink interface {
	Record(ctx context.Context, record AuditRecord) error
}
