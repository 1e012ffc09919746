package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements pricing.AssignmentReader using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// ListByTenant returns every assignment of the tenant, revoked ones included,
// newest first
func (r *GormAssignmentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]pricing.Assignment, error) {
	var rows []models.PriceListAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("assigned_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list assignments of tenant %s: %w", tenantID, err)
	}

	out := make([]pricing.Assignment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Assign links a list to a tenant. An existing active assignment for the
// same pair is returned unchanged.
func (r *GormAssignmentRepository) Assign(ctx context.Context, a pricing.Assignment) (pricing.Assignment, error) {
	var existing models.PriceListAssignmentModel
	err := r.db.WithContext(ctx).
		Where("price_list_id = ? AND tenant_id = ? AND revoked_at IS NULL", a.PriceListID, a.TenantID).
		First(&existing).Error
	if err == nil {
		return existing.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pricing.Assignment{}, fmt.Errorf("look up assignment: %w", err)
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	a.RevokedAt = nil

	var model models.PriceListAssignmentModel
	model.FromDomain(a)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return pricing.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}
	return model.ToDomain(), nil
}

// Revoke marks the active assignment of a list to a tenant as revoked
func (r *GormAssignmentRepository) Revoke(ctx context.Context, listID, tenantID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PriceListAssignmentModel{}).
		Where("price_list_id = ? AND tenant_id = ? AND revoked_at IS NULL", listID, tenantID).
		Update("revoked_at", at)
	if result.Error != nil {
		return fmt.Errorf("revoke assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "no active assignment for this tenant")
	}
	return nil
}

var _ pricing.AssignmentReader = (*GormAssignmentRepository)(nil)
