package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPriceHistoryRepository implements PriceHistoryRepository using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// FindByID finds a price bar by its ID
func (r *GormPriceHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.PriceBar, error) {
	var bar market.PriceBar
	if err := r.db.WithContext(ctx).First(&bar, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bar, nil
}

// FindAll finds price bars across all stocks matching the filter
func (r *GormPriceHistoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]market.PriceBar, error) {
	var bars []market.PriceBar
	query := r.applyFilter(r.db.WithContext(ctx).Model(&market.PriceBar{}), filter)

	if err := query.Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

// Count counts price bars across all stocks
func (r *GormPriceHistoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&market.PriceBar{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByStock finds the price bars of one stock matching the filter
func (r *GormPriceHistoryRepository) FindByStock(ctx context.Context, stockID uuid.UUID, filter shared.Filter) ([]market.PriceBar, error) {
	var bars []market.PriceBar
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&market.PriceBar{}).Where("stock_id = ?", stockID),
		filter,
	)

	if err := query.Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

// CountByStock counts the price bars of one stock
func (r *GormPriceHistoryRepository) CountByStock(ctx context.Context, stockID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&market.PriceBar{}).
		Where("stock_id = ?", stockID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySymbolInRange returns the bars of one symbol within [start, end],
// ordered by date ascending
func (r *GormPriceHistoryRepository) FindBySymbolInRange(ctx context.Context, symbol string, start, end time.Time) ([]market.PriceBar, error) {
	var bars []market.PriceBar
	if err := r.db.WithContext(ctx).Model(&market.PriceBar{}).
		Joins("JOIN stocks ON stocks.id = stock_histories.stock_id").
		Where("stocks.symbol = ?", market.NormalizeSymbol(symbol)).
		Where("stock_histories.date BETWEEN ? AND ?", start, end).
		Order("stock_histories.date ASC").
		Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

// FindClosingPricesInRange returns (symbol, date, close) rows for every stock
// within [start, end], ordered by symbol then date ascending
func (r *GormPriceHistoryRepository) FindClosingPricesInRange(ctx context.Context, start, end time.Time) ([]market.ClosingPrice, error) {
	var prices []market.ClosingPrice
	if err := r.db.WithContext(ctx).Model(&market.PriceBar{}).
		Select("stocks.symbol AS symbol, stock_histories.date AS date, stock_histories.close AS close").
		Joins("JOIN stocks ON stocks.id = stock_histories.stock_id").
		Where("stock_histories.date BETWEEN ? AND ?", start, end).
		Order("stocks.symbol ASC, stock_histories.date ASC").
		Scan(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// ExistsForDate checks whether the stock already has a bar for the date
func (r *GormPriceHistoryRepository) ExistsForDate(ctx context.Context, stockID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&market.PriceBar{}).
		Where("stock_id = ? AND date = ?", stockID, market.TruncateToDay(date)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates one price bar
func (r *GormPriceHistoryRepository) Save(ctx context.Context, bar *market.PriceBar) error {
	return r.db.WithContext(ctx).Save(bar).Error
}

// SaveBatch inserts a batch of price bars in one transaction
func (r *GormPriceHistoryRepository) SaveBatch(ctx context.Context, bars []*market.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(bars).Error
	})
}

// Delete removes one price bar by ID
func (r *GormPriceHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&market.PriceBar{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByStock removes all bars of a stock and reports how many rows were deleted
func (r *GormPriceHistoryRepository) DeleteByStock(ctx context.Context, stockID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&market.PriceBar{}, "stock_id = ?", stockID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies pagination and ordering to the query
func (r *GormPriceHistoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PriceBarSortFields, "date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormPriceHistoryRepository implements PriceHistoryRepository
var _ market.PriceHistoryRepository = (*GormPriceHistoryRepository)(nil)
