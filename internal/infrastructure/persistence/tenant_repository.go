package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository resolves tenant identities from the tenants table
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// GetTenant returns the identity of a tenant, or NOT_FOUND
func (r *GormTenantRepository) GetTenant(ctx context.Context, id uuid.UUID) (*pricing.TenantIdentity, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("tenant %s not found", id))
		}
		return nil, fmt.Errorf("load tenant %s: %w", id, err)
	}
	return model.ToDomain()
}

var _ pricing.TenantReader = (*GormTenantRepository)(nil)
