package market

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/shared"
)

// ErrStockNotFound is returned when a stock lookup by id or symbol misses.
var ErrStockNotFound = shared.NewDomainError("NOT_FOUND", "stock_not_found")

// StockRepository defines the persistence interface for stocks
type StockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	FindBySymbol(ctx context.Context, symbol string) (*Stock, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Stock, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySymbol(ctx context.Context, symbol string) (bool, error)
	Save(ctx context.Context, stock *Stock) error
	Delete(ctx context.Context, id uuid.UUID) error
}
