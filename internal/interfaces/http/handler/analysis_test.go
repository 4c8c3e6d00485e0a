package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	marketapp "github.com/marketlens/backend/internal/application/market"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalysisTestHandler() (*AnalysisHandler, *mockStockRepo, *mockHistoryRepo) {
	gin.SetMode(gin.TestMode)

	stockRepo := newMockStockRepo()
	historyRepo := newMockHistoryRepo()

	service := marketapp.NewAnalysisService(stockRepo, historyRepo)
	handler := NewAnalysisHandler(service)

	return handler, stockRepo, historyRepo
}

func seedSymbolBar(historyRepo *mockHistoryRepo, stockRepo *mockStockRepo, symbol string, day int, close float64) {
	stock, _ := stockRepo.FindBySymbol(nil, symbol)
	date := time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC)
	bar := createCatalogBar(stock.ID, date, close)
	historyRepo.symbolBars[symbol] = append(historyRepo.symbolBars[symbol], *bar)
	historyRepo.closingPrices = append(historyRepo.closingPrices, market.ClosingPrice{
		Symbol: symbol,
		Date:   date,
		Close:  decimal.NewFromFloat(close),
	})
}

func analysisRequest(handler *AnalysisHandler, symbol, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/market/analysis/"+symbol+query, nil)
	c.Params = gin.Params{{Key: "symbol", Value: symbol}}

	handler.Analyze(c)
	return w
}

func TestNewAnalysisHandler(t *testing.T) {
	handler, _, _ := setupAnalysisTestHandler()
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.analysisService)
}

func TestAnalysisHandler_Analyze_Success(t *testing.T) {
	handler, stockRepo, historyRepo := setupAnalysisTestHandler()

	for _, symbol := range []string{"AAPL", "MSFT", "IBM"} {
		stock := createCatalogStock(symbol)
		stockRepo.stocks[stock.ID] = stock
	}

	// AAPL: buy at 90 on the 14th, sell at 120 on the 16th
	seedSymbolBar(historyRepo, stockRepo, "AAPL", 12, 100)
	seedSymbolBar(historyRepo, stockRepo, "AAPL", 14, 90)
	seedSymbolBar(historyRepo, stockRepo, "AAPL", 16, 120)
	// MSFT out-earns AAPL, IBM does not
	seedSymbolBar(historyRepo, stockRepo, "MSFT", 12, 10)
	seedSymbolBar(historyRepo, stockRepo, "MSFT", 16, 55)
	seedSymbolBar(historyRepo, stockRepo, "IBM", 12, 10)
	seedSymbolBar(historyRepo, stockRepo, "IBM", 16, 20)

	w := analysisRequest(handler, "AAPL", "?start_date=2020-01-11&end_date=2020-01-20")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    marketapp.AnalysisResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	current := resp.Data.Analysis.CurrentPeriod
	require.NotNil(t, current)
	assert.Equal(t, "2020-01-14", current.BestBuyingPrice.Date)
	assert.Equal(t, "90", current.BestBuyingPrice.ClosingPrice.String())
	assert.Equal(t, "2020-01-16", current.BestSellingPrice.Date)
	assert.Equal(t, "120", current.BestSellingPrice.ClosingPrice.String())
	assert.Equal(t, "30", current.Profit.String())

	assert.Equal(t, []string{"MSFT"}, resp.Data.HigherProfitSymbols)
	assert.Equal(t, "AAPL", resp.Data.Metadata.Symbol)
	assert.Equal(t, "2020-01-11", resp.Data.Metadata.StartDate)
	assert.Equal(t, "2020-01-20", resp.Data.Metadata.EndDate)
}

func TestAnalysisHandler_Analyze_NormalizesSymbol(t *testing.T) {
	handler, stockRepo, historyRepo := setupAnalysisTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock
	seedSymbolBar(historyRepo, stockRepo, "AAPL", 14, 90)

	w := analysisRequest(handler, "aapl", "?start_date=2020-01-11&end_date=2020-01-20")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data marketapp.AnalysisResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", resp.Data.Metadata.Symbol)
}

func TestAnalysisHandler_Analyze_MissingDates(t *testing.T) {
	handler, stockRepo, _ := setupAnalysisTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	w := analysisRequest(handler, "AAPL", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisHandler_Analyze_InvalidDateFormat(t *testing.T) {
	handler, stockRepo, _ := setupAnalysisTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	w := analysisRequest(handler, "AAPL", "?start_date=11-01-2020&end_date=2020-01-20")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Contains(t, resp.Error.Message, "YYYY-MM-DD")
}

func TestAnalysisHandler_Analyze_ReversedPeriod(t *testing.T) {
	handler, stockRepo, _ := setupAnalysisTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	w := analysisRequest(handler, "AAPL", "?start_date=2020-01-20&end_date=2020-01-11")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisHandler_Analyze_UnknownSymbol(t *testing.T) {
	handler, _, _ := setupAnalysisTestHandler()

	w := analysisRequest(handler, "NOPE", "?start_date=2020-01-11&end_date=2020-01-20")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisHandler_Analyze_EmptyPeriod(t *testing.T) {
	handler, stockRepo, _ := setupAnalysisTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	w := analysisRequest(handler, "AAPL", "?start_date=2020-01-11&end_date=2020-01-20")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "There is no record for the selected period", resp.Error.Message)
}
