package market

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClosingPrice is a projection of one bar joined with its stock's symbol.
// Used by the analysis queries that span the whole catalog.
type ClosingPrice struct {
	Symbol string
	Date   time.Time
	Close  decimal.Decimal
}

// PriceHistoryRepository defines the persistence interface for daily price bars
type PriceHistoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceBar, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PriceBar, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByStock(ctx context.Context, stockID uuid.UUID, filter shared.Filter) ([]PriceBar, error)
	CountByStock(ctx context.Context, stockID uuid.UUID) (int64, error)
	// FindBySymbolInRange returns bars for the symbol within [start, end],
	// ordered by date ascending.
	FindBySymbolInRange(ctx context.Context, symbol string, start, end time.Time) ([]PriceBar, error)
	// FindClosingPricesInRange returns (symbol, date, close) rows for every
	// stock within [start, end], ordered by symbol then date ascending.
	FindClosingPricesInRange(ctx context.Context, start, end time.Time) ([]ClosingPrice, error)
	ExistsForDate(ctx context.Context, stockID uuid.UUID, date time.Time) (bool, error)
	Save(ctx context.Context, bar *PriceBar) error
	SaveBatch(ctx context.Context, bars []*PriceBar) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByStock removes all bars for a stock and reports how many rows
	// were deleted.
	DeleteByStock(ctx context.Context, stockID uuid.UUID) (int64, error)
}
