package market

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
)

// StockService handles stock catalog operations
type StockService struct {
	stockRepo   market.StockRepository
	historyRepo market.PriceHistoryRepository
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo market.StockRepository,
	historyRepo market.PriceHistoryRepository,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		historyRepo: historyRepo,
	}
}

// Create creates a new stock
func (s *StockService) Create(ctx context.Context, req CreateStockRequest) (*StockResponse, error) {
	if err := market.ValidateSymbol(req.Symbol); err != nil {
		return nil, err
	}

	exists, err := s.stockRepo.ExistsBySymbol(ctx, market.NormalizeSymbol(req.Symbol))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Stock with the same symbol already exists")
	}

	stock, err := market.NewStock(req.Name, req.Symbol, req.Founded, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return nil, err
	}

	return ToStockResponse(stock), nil
}

// GetByID retrieves a stock by ID
func (s *StockService) GetByID(ctx context.Context, id uuid.UUID) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStockResponse(stock), nil
}

// GetBySymbol retrieves a stock by its ticker symbol, case-insensitively
func (s *StockService) GetBySymbol(ctx context.Context, symbol string) (*StockResponse, error) {
	stock, err := s.stockRepo.FindBySymbol(ctx, market.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	return ToStockResponse(stock), nil
}

// List retrieves a paginated stock listing
func (s *StockService) List(ctx context.Context, filter StockListFilter) ([]StockResponse, int64, error) {
	domainFilter := shared.DefaultFilter()

	if filter.Search != "" {
		domainFilter.Search = filter.Search
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
		if filter.SortDesc {
			domainFilter.OrderDir = "desc"
		} else {
			domainFilter.OrderDir = "asc"
		}
	}

	stocks, err := s.stockRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.stockRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockResponse, len(stocks))
	for i := range stocks {
		responses[i] = *ToStockResponse(&stocks[i])
	}

	return responses, total, nil
}

// Update applies a partial update to a stock
func (s *StockService) Update(ctx context.Context, id uuid.UUID, req UpdateStockRequest) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Symbol != nil {
		newSymbol := market.NormalizeSymbol(*req.Symbol)
		if newSymbol != stock.Symbol {
			exists, err := s.stockRepo.ExistsBySymbol(ctx, newSymbol)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Stock with the same symbol already exists")
			}
		}
		if err := stock.ChangeSymbol(*req.Symbol); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := stock.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Founded != nil {
		if err := stock.SetFounded(*req.Founded); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := stock.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return nil, err
	}

	return ToStockResponse(stock), nil
}

// Delete removes a stock together with all of its price history
func (s *StockService) Delete(ctx context.Context, id uuid.UUID) error {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.historyRepo.DeleteByStock(ctx, stock.ID); err != nil {
		return err
	}

	return s.stockRepo.Delete(ctx, stock.ID)
}
