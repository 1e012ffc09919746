package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/logger"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entryBatchSize = 200

// GormPriceListRepository implements pricing.PriceListReader using GORM.
// Rows are validated on the way out; GetPriceList reports a row that does
// not map cleanly as INCONSISTENT_LIST_DATA.
type GormPriceListRepository struct {
	db             *gorm.DB
	defaultTaxRate decimal.Decimal
}

// NewGormPriceListRepository creates a new GormPriceListRepository. Lists
// without a stored VAT rate get defaultTaxRate; a non-positive value falls
// back to pricing.DefaultTaxRate.
func NewGormPriceListRepository(db *gorm.DB, defaultTaxRate decimal.Decimal) *GormPriceListRepository {
	if !defaultTaxRate.IsPositive() {
		defaultTaxRate = pricing.DefaultTaxRate
	}
	return &GormPriceListRepository{db: db, defaultTaxRate: defaultTaxRate}
}

// GetPriceList loads the header and its entries
func (r *GormPriceListRepository) GetPriceList(ctx context.Context, id uuid.UUID) (*pricing.PriceListSnapshot, error) {
	var header models.PriceListModel
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("price list %s not found", id))
		}
		return nil, fmt.Errorf("load price list %s: %w", id, err)
	}

	list, err := header.ToDomain(r.defaultTaxRate)
	if err != nil {
		return nil, err
	}

	var rows []models.PriceListEntryModel
	if err := r.db.WithContext(ctx).
		Where("price_list_id = ?", id).
		Order("weight_from ASC, weight_to ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load entries of price list %s: %w", id, err)
	}

	entries := make([]pricing.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return &pricing.PriceListSnapshot{List: list, Entries: entries}, nil
}

// ListPriceLists returns headers matching the filter, ordered by name.
// Rows that fail validation are logged and skipped so one bad list cannot
// hide every other list; GetPriceList still reports them.
func (r *GormPriceListRepository) ListPriceLists(ctx context.Context, filter pricing.PriceListFilter) ([]pricing.PriceList, error) {
	query := r.db.WithContext(ctx).Model(&models.PriceListModel{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.OnlyGlobal {
		query = query.Where("owner_id IS NULL")
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return nil, nil
		}
		query = query.Where("id IN ?", filter.IDs)
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		query = query.Where("list_type IN ?", kinds)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var rows []models.PriceListModel
	if err := query.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list price lists: %w", err)
	}

	lists := make([]pricing.PriceList, 0, len(rows))
	for i := range rows {
		l, err := rows[i].ToDomain(r.defaultTaxRate)
		if err != nil {
			logger.L(ctx).Warn("Skipping invalid price list",
				zap.String("price_list_id", rows[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		lists = append(lists, *l)
	}
	return lists, nil
}

// Save inserts or updates a price list header
func (r *GormPriceListRepository) Save(ctx context.Context, list *pricing.PriceList) error {
	if list.Name == "" {
		return shared.NewValidationError("price list name is required")
	}
	list.EnsureID()
	var model models.PriceListModel
	model.FromDomain(list)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("save price list %s: %w", list.ID, err)
	}
	list.CreatedAt = model.CreatedAt
	list.UpdatedAt = model.UpdatedAt
	return nil
}

// ReplaceEntries swaps the full entry set of a list in one transaction.
// Concurrent readers see either the old or the new set.
func (r *GormPriceListRepository) ReplaceEntries(ctx context.Context, listID uuid.UUID, entries []pricing.Entry) error {
	rows, err := entryRows(listID, entries)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_list_id = ?", listID).Delete(&models.PriceListEntryModel{}).Error; err != nil {
			return fmt.Errorf("delete entries of price list %s: %w", listID, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, entryBatchSize).Error; err != nil {
			return fmt.Errorf("insert entries of price list %s: %w", listID, err)
		}
		return nil
	})
}

// UpsertEntries inserts entries, updating prices of existing bands
func (r *GormPriceListRepository) UpsertEntries(ctx context.Context, listID uuid.UUID, entries []pricing.Entry) error {
	rows, err := entryRows(listID, entries)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "price_list_id"},
				{Name: "zone_code"},
				{Name: "weight_from"},
				{Name: "weight_to"},
				{Name: "service_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"base_price",
				"fuel_surcharge_percent",
				"island_surcharge",
				"ztl_surcharge",
				"cash_on_delivery_surcharge",
				"insurance_rate_percent",
				"estimated_delivery_days_min",
				"estimated_delivery_days_max",
				"updated_at",
			}),
		}).
		CreateInBatches(rows, entryBatchSize).Error
}

func entryRows(listID uuid.UUID, entries []pricing.Entry) ([]models.PriceListEntryModel, error) {
	rows := make([]models.PriceListEntryModel, len(entries))
	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.PriceListID = listID
		if err := e.Validate(); err != nil {
			return nil, err
		}
		rows[i].FromDomain(e)
	}
	return rows, nil
}

var _ pricing.PriceListReader = (*GormPriceListRepository)(nil)
