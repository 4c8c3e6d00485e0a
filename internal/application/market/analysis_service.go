package market

import (
	"context"
	"sort"
	"time"

	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AnalysisService computes trading-period analyses over stored history
type AnalysisService struct {
	stockRepo   market.StockRepository
	historyRepo market.PriceHistoryRepository
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	stockRepo market.StockRepository,
	historyRepo market.PriceHistoryRepository,
) *AnalysisService {
	return &AnalysisService{
		stockRepo:   stockRepo,
		historyRepo: historyRepo,
	}
}

// Analyze summarizes the symbol's trading in [start, end]: best single
// buy/sell days, multi-trade max profit, the same figures for the
// adjacent periods of equal length, and the symbols that out-performed
// it over the requested period.
func (s *AnalysisService) Analyze(ctx context.Context, symbol string, start, end time.Time) (*AnalysisResponse, error) {
	normalized := market.NormalizeSymbol(symbol)
	if _, err := s.stockRepo.FindBySymbol(ctx, normalized); err != nil {
		return nil, err
	}

	period, err := market.NewPeriod(start, end)
	if err != nil {
		return nil, err
	}

	current, err := s.analyzePeriod(ctx, normalized, period)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "There is no record for the selected period")
	}

	previous, err := s.analyzePeriod(ctx, normalized, period.Previous())
	if err != nil {
		return nil, err
	}
	next, err := s.analyzePeriod(ctx, normalized, period.Next())
	if err != nil {
		return nil, err
	}

	higher, err := s.higherProfitSymbols(ctx, normalized, period, current.MultiTradeMaxProfit)
	if err != nil {
		return nil, err
	}

	return &AnalysisResponse{
		Analysis: AnalysisSections{
			CurrentPeriod:  current,
			PreviousPeriod: previous,
			NextPeriod:     next,
		},
		HigherProfitSymbols: higher,
		Metadata: AnalysisMetadata{
			Symbol:    normalized,
			StartDate: period.Start.Format(DateLayout),
			EndDate:   period.End.Format(DateLayout),
		},
	}, nil
}

// analyzePeriod computes one period's summary, or nil when the period
// holds no bars.
func (s *AnalysisService) analyzePeriod(ctx context.Context, symbol string, period market.Period) (*PeriodAnalysis, error) {
	bars, err := s.historyRepo.FindBySymbolInRange(ctx, symbol, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	best, ok := market.ComputeBestPrices(bars)
	if !ok {
		return nil, nil
	}

	return &PeriodAnalysis{
		BestBuyingPrice: PricePoint{
			Date:         best.BuyDate.Format(DateLayout),
			ClosingPrice: best.BuyClose,
		},
		BestSellingPrice: PricePoint{
			Date:         best.SellDate.Format(DateLayout),
			ClosingPrice: best.SellClose,
		},
		Profit:              best.Profit,
		MultiTradeMaxProfit: market.MaxTradeProfit(bars),
	}, nil
}

// higherProfitSymbols lists the symbols whose multi-trade profit over the
// period strictly exceeds the reference profit, sorted alphabetically.
func (s *AnalysisService) higherProfitSymbols(ctx context.Context, symbol string, period market.Period, reference decimal.Decimal) ([]string, error) {
	prices, err := s.historyRepo.FindClosingPricesInRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	higher := make([]string, 0)
	for sym, profit := range market.MaxTradeProfitBySymbol(prices) {
		if sym != symbol && profit.GreaterThan(reference) {
			higher = append(higher, sym)
		}
	}
	sort.Strings(higher)

	return higher, nil
}
