package market

import (
	"time"

	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is an inclusive date range
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates that start precedes end and returns the period
func NewPeriod(start, end time.Time) (Period, error) {
	start, end = TruncateToDay(start), TruncateToDay(end)
	if !start.Before(end) {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "start_date must be before end_date")
	}
	return Period{Start: start, End: end}, nil
}

// Previous returns the adjacent period of equal length ending the day
// before this one starts.
func (p Period) Previous() Period {
	interval := p.End.Sub(p.Start)
	return Period{
		Start: p.Start.Add(-interval),
		End:   p.Start.AddDate(0, 0, -1),
	}
}

// Next returns the adjacent period of equal length starting the day
// after this one ends.
func (p Period) Next() Period {
	interval := p.End.Sub(p.Start)
	return Period{
		Start: p.End.AddDate(0, 0, 1),
		End:   p.End.Add(interval),
	}
}

// BestPrices describes the optimal single buy and sell within a period.
// The buy day is the day with the lowest low, the sell day the day with
// the highest high; prices quoted are those days' closes.
type BestPrices struct {
	BuyDate   time.Time
	BuyClose  decimal.Decimal
	SellDate  time.Time
	SellClose decimal.Decimal
	Profit    decimal.Decimal
}

// ComputeBestPrices scans the period's bars for the best buying and
// selling days. Returns false when the period holds no bars. Ties are
// broken in favor of the earlier bar.
func ComputeBestPrices(bars []PriceBar) (BestPrices, bool) {
	if len(bars) == 0 {
		return BestPrices{}, false
	}

	buy, sell := bars[0], bars[0]
	for _, bar := range bars[1:] {
		if bar.Low.LessThan(buy.Low) {
			buy = bar
		}
		if bar.High.GreaterThan(sell.High) {
			sell = bar
		}
	}

	return BestPrices{
		BuyDate:   buy.Date,
		BuyClose:  buy.Close,
		SellDate:  sell.Date,
		SellClose: sell.Close,
		Profit:    sell.Close.Sub(buy.Close),
	}, true
}

// MaxTradeProfit computes the maximum profit achievable with unlimited
// buy/sell trades over bars ordered by date ascending: the sum of all
// positive day-over-day closing price deltas.
func MaxTradeProfit(bars []PriceBar) decimal.Decimal {
	profit := decimal.Zero
	for i := 1; i < len(bars); i++ {
		diff := bars[i].Close.Sub(bars[i-1].Close)
		if diff.IsPositive() {
			profit = profit.Add(diff)
		}
	}
	return profit
}

// MaxTradeProfitBySymbol computes the multi-trade max profit per symbol
// from closing price rows ordered by symbol then date ascending.
func MaxTradeProfitBySymbol(prices []ClosingPrice) map[string]decimal.Decimal {
	profits := make(map[string]decimal.Decimal)
	last := make(map[string]decimal.Decimal)

	for _, p := range prices {
		symbol := NormalizeSymbol(p.Symbol)
		prev, seen := last[symbol]
		if !seen {
			profits[symbol] = decimal.Zero
		} else if diff := p.Close.Sub(prev); diff.IsPositive() {
			profits[symbol] = profits[symbol].Add(diff)
		}
		last[symbol] = p.Close
	}

	return profits
}
