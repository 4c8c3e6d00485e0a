package market

import (
	"time"

	"github.com/marketlens/backend/internal/domain/market"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for trading dates
const DateLayout = "2006-01-02"

// CreateStockRequest is the application-level request to create a stock
type CreateStockRequest struct {
	Name        string
	Symbol      string
	Founded     time.Time
	Description string
}

// UpdateStockRequest is a partial update; nil fields are left unchanged
type UpdateStockRequest struct {
	Name        *string
	Symbol      *string
	Founded     *time.Time
	Description *string
}

// StockListFilter holds list/search parameters for stocks
type StockListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	SortBy   string `form:"sort_by"`
	SortDesc bool   `form:"sort_desc"`
}

// StockResponse is the canonical stock representation
type StockResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Founded     time.Time `json:"founded"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToStockResponse converts a domain stock to its response form
func ToStockResponse(stock *market.Stock) *StockResponse {
	return &StockResponse{
		ID:          stock.ID.String(),
		Name:        stock.Name,
		Symbol:      stock.Symbol,
		Founded:     stock.Founded,
		Description: stock.Description,
		CreatedAt:   stock.CreatedAt,
		UpdatedAt:   stock.UpdatedAt,
		Version:     stock.Version,
	}
}

// RecordBarRequest is the application-level request to record one daily bar
type RecordBarRequest struct {
	Date          time.Time
	Open          decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Close         decimal.Decimal
	AdjustedClose decimal.Decimal
	Volume        int64
}

// HistoryListFilter holds list parameters for price history
type HistoryListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// PriceBarResponse is the canonical daily bar representation
type PriceBarResponse struct {
	ID            string          `json:"id"`
	StockID       string          `json:"stock_id"`
	Date          string          `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        int64           `json:"volume"`
}

// ToPriceBarResponse converts a domain bar to its response form
func ToPriceBarResponse(bar *market.PriceBar) *PriceBarResponse {
	return &PriceBarResponse{
		ID:            bar.ID.String(),
		StockID:       bar.StockID.String(),
		Date:          bar.Date.Format(DateLayout),
		Open:          bar.Open,
		High:          bar.High,
		Low:           bar.Low,
		Close:         bar.Close,
		AdjustedClose: bar.AdjustedClose,
		Volume:        bar.Volume,
	}
}

// PricePoint is a dated closing price inside an analysis response
type PricePoint struct {
	Date         string          `json:"date"`
	ClosingPrice decimal.Decimal `json:"closing_price"`
}

// PeriodAnalysis summarizes one trading period for a symbol
type PeriodAnalysis struct {
	BestBuyingPrice     PricePoint      `json:"best_buying_price"`
	BestSellingPrice    PricePoint      `json:"best_selling_price"`
	Profit              decimal.Decimal `json:"profit"`
	MultiTradeMaxProfit decimal.Decimal `json:"multi_trade_max_profit"`
}

// AnalysisSections groups the analyzed periods. Previous and next are
// omitted when those periods hold no data.
type AnalysisSections struct {
	CurrentPeriod  *PeriodAnalysis `json:"current_period"`
	PreviousPeriod *PeriodAnalysis `json:"previous_period,omitempty"`
	NextPeriod     *PeriodAnalysis `json:"next_period,omitempty"`
}

// AnalysisMetadata echoes the analyzed symbol and period bounds
type AnalysisMetadata struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AnalysisResponse is the full analysis result for a symbol and period
type AnalysisResponse struct {
	Analysis            AnalysisSections `json:"analysis"`
	HigherProfitSymbols []string         `json:"higher_profit_symbols"`
	Metadata            AnalysisMetadata `json:"metadata"`
}
