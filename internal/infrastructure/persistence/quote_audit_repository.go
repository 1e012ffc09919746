package persistence

import (
	"context"
	"fmt"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteAuditRepository stores quote audit records in quote_audits.
// Redelivered events are ignored by primary key.
type GormQuoteAuditRepository struct {
	db *gorm.DB
}

// NewGormQuoteAuditRepository creates a new GormQuoteAuditRepository
func NewGormQuoteAuditRepository(db *gorm.DB) *GormQuoteAuditRepository {
	return &GormQuoteAuditRepository{db: db}
}

// Record implements pricing.AuditSink
func (r *GormQuoteAuditRepository) Record(ctx context.Context, record pricing.AuditRecord) error {
	var model models.QuoteAuditModel
	model.FromDomain(record)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("record quote audit %s: %w", record.EventID, err)
	}
	return nil
}

var _ pricing.AuditSink = (*GormQuoteAuditRepository)(nil)
