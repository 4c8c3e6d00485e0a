package market

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
)

// PriceHistoryService handles recording and querying daily price bars
type PriceHistoryService struct {
	stockRepo   market.StockRepository
	historyRepo market.PriceHistoryRepository
}

// NewPriceHistoryService creates a new PriceHistoryService
func NewPriceHistoryService(
	stockRepo market.StockRepository,
	historyRepo market.PriceHistoryRepository,
) *PriceHistoryService {
	return &PriceHistoryService{
		stockRepo:   stockRepo,
		historyRepo: historyRepo,
	}
}

// RecordBar records one daily bar for a stock. At most one bar may exist
// per stock per calendar day.
func (s *PriceHistoryService) RecordBar(ctx context.Context, stockID uuid.UUID, req RecordBarRequest) (*PriceBarResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	bar, err := market.NewPriceBar(stock.ID, req.Date, req.Open, req.High, req.Low, req.Close, req.AdjustedClose, req.Volume)
	if err != nil {
		return nil, err
	}

	exists, err := s.historyRepo.ExistsForDate(ctx, stock.ID, bar.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A bar for this stock and date already exists")
	}

	if err := s.historyRepo.Save(ctx, bar); err != nil {
		return nil, err
	}

	return ToPriceBarResponse(bar), nil
}

// RecordBars records a batch of daily bars for a stock atomically.
// The batch is rejected as a whole when any bar is invalid, duplicates a
// stored bar, or duplicates another bar in the batch.
func (s *PriceHistoryService) RecordBars(ctx context.Context, stockID uuid.UUID, reqs []RecordBarRequest) ([]PriceBarResponse, error) {
	if len(reqs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one bar is required")
	}

	stock, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	bars := make([]*market.PriceBar, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		bar, err := market.NewPriceBar(stock.ID, req.Date, req.Open, req.High, req.Low, req.Close, req.AdjustedClose, req.Volume)
		if err != nil {
			return nil, err
		}

		day := bar.Date.Format(DateLayout)
		if _, dup := seen[day]; dup {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Batch contains more than one bar for "+day)
		}
		seen[day] = struct{}{}

		exists, err := s.historyRepo.ExistsForDate(ctx, stock.ID, bar.Date)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A bar for "+day+" already exists")
		}

		bars = append(bars, bar)
	}

	if err := s.historyRepo.SaveBatch(ctx, bars); err != nil {
		return nil, err
	}

	responses := make([]PriceBarResponse, len(bars))
	for i, bar := range bars {
		responses[i] = *ToPriceBarResponse(bar)
	}
	return responses, nil
}

// ListByStock returns the paginated history of one stock, newest first
func (s *PriceHistoryService) ListByStock(ctx context.Context, stockID uuid.UUID, filter HistoryListFilter) ([]PriceBarResponse, int64, error) {
	stock, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		return nil, 0, err
	}

	bars, err := s.historyRepo.FindByStock(ctx, stock.ID, historyFilter(filter))
	if err != nil {
		return nil, 0, err
	}

	total, err := s.historyRepo.CountByStock(ctx, stock.ID)
	if err != nil {
		return nil, 0, err
	}

	return toBarResponses(bars), total, nil
}

// List returns the paginated history across all stocks, newest first
func (s *PriceHistoryService) List(ctx context.Context, filter HistoryListFilter) ([]PriceBarResponse, int64, error) {
	domainFilter := historyFilter(filter)

	bars, err := s.historyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.historyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return toBarResponses(bars), total, nil
}

func historyFilter(filter HistoryListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "date"
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}
	return domainFilter
}

func toBarResponses(bars []market.PriceBar) []PriceBarResponse {
	responses := make([]PriceBarResponse, len(bars))
	for i := range bars {
		responses[i] = *ToPriceBarResponse(&bars[i])
	}
	return responses
}
