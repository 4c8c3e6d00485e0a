package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	marketapp "github.com/marketlens/backend/internal/application/market"
	"github.com/marketlens/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHistoryTestHandler() (*PriceHistoryHandler, *mockStockRepo, *mockHistoryRepo) {
	gin.SetMode(gin.TestMode)

	stockRepo := newMockStockRepo()
	historyRepo := newMockHistoryRepo()

	service := marketapp.NewPriceHistoryService(stockRepo, historyRepo)
	handler := NewPriceHistoryHandler(service)

	return handler, stockRepo, historyRepo
}

func TestNewPriceHistoryHandler(t *testing.T) {
	handler, _, _ := setupHistoryTestHandler()
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.historyService)
}

func TestPriceHistoryHandler_RecordBar_Success(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	body := `{"date":"2020-01-15","open":100.5,"high":104.25,"low":99.1,"close":103,"volume":1250000}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2020-01-15", data["date"])
	// Omitted adjusted close falls back to the close
	assert.Equal(t, "103", data["adjusted_close"])

	assert.Len(t, historyRepo.bars, 1)
}

func TestPriceHistoryHandler_RecordBar_StockNotFound(t *testing.T) {
	handler, _, _ := setupHistoryTestHandler()

	stockID := uuid.New()
	body := `{"date":"2020-01-15","open":100,"high":104,"low":99,"close":103,"volume":1000}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stockID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stockID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceHistoryHandler_RecordBar_NegativeClose(t *testing.T) {
	handler, stockRepo, _ := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	body := `{"date":"2020-01-15","open":100,"high":104,"low":99,"close":-1,"volume":1000}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceHistoryHandler_RecordBar_ZeroPrices(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	// A delisted instrument may legitimately record a zero-priced bar
	body := `{"date":"2020-01-15","open":0,"high":0,"low":0,"close":0,"volume":0}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0", data["close"])

	assert.Len(t, historyRepo.bars, 1)
}

func TestPriceHistoryHandler_RecordBar_InvalidDateFormat(t *testing.T) {
	handler, stockRepo, _ := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	body := `{"date":"15/01/2020","open":100,"high":104,"low":99,"close":103,"volume":1000}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceHistoryHandler_RecordBar_DuplicateDate(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	existing := createCatalogBar(stock.ID, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), 100)
	historyRepo.bars[existing.ID] = existing

	body := `{"date":"2020-01-15","open":100,"high":104,"low":99,"close":103,"volume":1000}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBar(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPriceHistoryHandler_RecordBars_Success(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	body := `{"bars":[
		{"date":"2020-01-15","open":100,"high":104,"low":99,"close":103,"volume":1000},
		{"date":"2020-01-16","open":103,"high":108,"low":102,"close":107,"volume":1500}
	]}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history/bulk", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBars(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
	assert.Len(t, historyRepo.bars, 2)
}

func TestPriceHistoryHandler_RecordBars_EmptyBatch(t *testing.T) {
	handler, stockRepo, _ := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	body := `{"bars":[]}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/market/stocks/"+stock.ID.String()+"/history/bulk", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.RecordBars(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceHistoryHandler_ListByStock_Success(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	for day := 13; day <= 15; day++ {
		bar := createCatalogBar(stock.ID, time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC), 100)
		historyRepo.bars[bar.ID] = bar
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/market/stocks/"+stock.ID.String()+"/history?page=1&page_size=20", nil)
	c.Params = gin.Params{{Key: "id", Value: stock.ID.String()}}

	handler.ListByStock(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
}

func TestPriceHistoryHandler_ListByStock_StockNotFound(t *testing.T) {
	handler, _, _ := setupHistoryTestHandler()

	stockID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/market/stocks/"+stockID.String()+"/history", nil)
	c.Params = gin.Params{{Key: "id", Value: stockID.String()}}

	handler.ListByStock(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceHistoryHandler_List_Success(t *testing.T) {
	handler, stockRepo, historyRepo := setupHistoryTestHandler()

	stock := createCatalogStock("AAPL")
	stockRepo.stocks[stock.ID] = stock

	bar := createCatalogBar(stock.ID, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), 100)
	historyRepo.bars[bar.ID] = bar

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/market/history?page=1&page_size=20", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}
