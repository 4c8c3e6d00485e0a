package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByID finds a stock by its ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.Stock, error) {
	var stock market.Stock
	if err := r.db.WithContext(ctx).First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, market.ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindBySymbol finds a stock by its ticker symbol. The symbol is expected
// to be normalized upper-case.
func (r *GormStockRepository) FindBySymbol(ctx context.Context, symbol string) (*market.Stock, error) {
	var stock market.Stock
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", market.NormalizeSymbol(symbol)).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, market.ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindAll finds all stocks matching the filter
func (r *GormStockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]market.Stock, error) {
	var stocks []market.Stock
	query := r.applyFilter(r.db.WithContext(ctx).Model(&market.Stock{}), filter)

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Count counts stocks matching the filter
func (r *GormStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&market.Stock{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySymbol checks whether a stock with the symbol exists
func (r *GormStockRepository) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&market.Stock{}).
		Where("symbol = ?", market.NormalizeSymbol(symbol)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a stock
func (r *GormStockRepository) Save(ctx context.Context, stock *market.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// Delete removes a stock by ID
func (r *GormStockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&market.Stock{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return market.ErrStockNotFound
	}
	return nil
}

// applySearch applies the search predicate without pagination or ordering
func (r *GormStockRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(symbol) LIKE LOWER(?)",
			searchPattern, searchPattern)
	}
	return query
}

// applyFilter applies search, pagination and ordering to the query
func (r *GormStockRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockRepository implements StockRepository
var _ market.StockRepository = (*GormStockRepository)(nil)
