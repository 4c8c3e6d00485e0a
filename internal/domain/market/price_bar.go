package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceBar represents one trading day of OHLCV data for a stock.
// There is at most one bar per stock per date.
type PriceBar struct {
	shared.BaseEntity
	StockID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_stock_histories_stock_date,priority:1"`
	Date          time.Time       `gorm:"not null;index;uniqueIndex:idx_stock_histories_stock_date,priority:2"`
	Open          decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	High          decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Low           decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Close         decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	AdjustedClose decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Volume        int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceBar) TableName() string {
	return "stock_histories"
}

// NewPriceBar creates a validated daily price bar for a stock.
// The date is truncated to midnight UTC so bars compare by calendar day.
func NewPriceBar(stockID uuid.UUID, date time.Time, open, high, low, close, adjustedClose decimal.Decimal, volume int64) (*PriceBar, error) {
	if stockID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock ID is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	for _, p := range []decimal.Decimal{open, high, low, close, adjustedClose} {
		if p.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
		}
	}
	if low.GreaterThan(high) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Low price cannot exceed high price")
	}
	if volume < 0 {
		return nil, shared.NewDomainError("INVALID_VOLUME", "Volume cannot be negative")
	}

	return &PriceBar{
		BaseEntity:    shared.NewBaseEntity(),
		StockID:       stockID,
		Date:          TruncateToDay(date),
		Open:          open,
		High:          high,
		Low:           low,
		Close:         close,
		AdjustedClose: adjustedClose,
		Volume:        volume,
	}, nil
}

// TruncateToDay normalizes a timestamp to midnight UTC
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
