package market

import (
	"context"
	"testing"

	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newBarRequest(day int, close float64) RecordBarRequest {
	c := decimal.NewFromFloat(close)
	return RecordBarRequest{
		Date:          testDay(day),
		Open:          c,
		High:          c,
		Low:           c,
		Close:         c,
		AdjustedClose: c,
		Volume:        1000,
	}
}

func TestPriceHistoryService_RecordBar_Success(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(15)).Return(false, nil)
	mockHistoryRepo.On("Save", ctx, mock.AnythingOfType("*market.PriceBar")).Return(nil)

	result, err := service.RecordBar(ctx, stockID, newBarRequest(15, 120.50))

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "2020-01-15", result.Date)
	assert.True(t, result.Close.Equal(decimal.NewFromFloat(120.50)))
	mockStockRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestPriceHistoryService_RecordBar_StockNotFound(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()

	mockStockRepo.On("FindByID", ctx, stockID).Return(nil, market.ErrStockNotFound)

	result, err := service.RecordBar(ctx, stockID, newBarRequest(15, 120.50))

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, market.ErrStockNotFound)
	mockHistoryRepo.AssertNotCalled(t, "Save")
	mockStockRepo.AssertExpectations(t)
}

func TestPriceHistoryService_RecordBar_DuplicateDate(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(15)).Return(true, nil)

	result, err := service.RecordBar(ctx, stockID, newBarRequest(15, 120.50))

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockHistoryRepo.AssertNotCalled(t, "Save")
	mockHistoryRepo.AssertExpectations(t)
}

func TestPriceHistoryService_RecordBar_InvalidPrices(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	req := newBarRequest(15, 120.50)
	req.Low = decimal.NewFromFloat(200.00) // low above high

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)

	result, err := service.RecordBar(ctx, stockID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	mockHistoryRepo.AssertNotCalled(t, "ExistsForDate")
	mockHistoryRepo.AssertNotCalled(t, "Save")
}

func TestPriceHistoryService_RecordBars_Success(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	reqs := []RecordBarRequest{
		newBarRequest(15, 120.50),
		newBarRequest(16, 121.00),
	}

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(15)).Return(false, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(16)).Return(false, nil)
	mockHistoryRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*market.PriceBar")).Return(nil)

	result, err := service.RecordBars(ctx, stockID, reqs)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "2020-01-15", result[0].Date)
	assert.Equal(t, "2020-01-16", result[1].Date)
	mockStockRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestPriceHistoryService_RecordBars_Empty(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()

	result, err := service.RecordBars(ctx, newTestStockID(), nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	mockStockRepo.AssertNotCalled(t, "FindByID")
}

func TestPriceHistoryService_RecordBars_DuplicateWithinBatch(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	reqs := []RecordBarRequest{
		newBarRequest(15, 120.50),
		newBarRequest(15, 121.00),
	}

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(15)).Return(false, nil)

	result, err := service.RecordBars(ctx, stockID, reqs)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockHistoryRepo.AssertNotCalled(t, "SaveBatch")
}

func TestPriceHistoryService_RecordBars_DuplicateStoredBar(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()

	reqs := []RecordBarRequest{newBarRequest(15, 120.50)}

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("ExistsForDate", ctx, stock.ID, testDay(15)).Return(true, nil)

	result, err := service.RecordBars(ctx, stockID, reqs)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockHistoryRepo.AssertNotCalled(t, "SaveBatch")
}

func TestPriceHistoryService_ListByStock_Success(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	stock := createTestStock()
	bars := []market.PriceBar{
		createTestBar(stock.ID, 16, 121.00),
		createTestBar(stock.ID, 15, 120.50),
	}

	mockStockRepo.On("FindByID", ctx, stockID).Return(stock, nil)
	mockHistoryRepo.On("FindByStock", ctx, stock.ID, mock.AnythingOfType("shared.Filter")).Return(bars, nil)
	mockHistoryRepo.On("CountByStock", ctx, stock.ID).Return(int64(2), nil)

	result, total, err := service.ListByStock(ctx, stockID, HistoryListFilter{Page: 1, PageSize: 10})

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), total)
	mockStockRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestPriceHistoryService_ListByStock_StockNotFound(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()

	mockStockRepo.On("FindByID", ctx, stockID).Return(nil, market.ErrStockNotFound)

	result, total, err := service.ListByStock(ctx, stockID, HistoryListFilter{})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int64(0), total)
	mockHistoryRepo.AssertNotCalled(t, "FindByStock")
}

func TestPriceHistoryService_List_Success(t *testing.T) {
	mockStockRepo := new(MockStockRepository)
	mockHistoryRepo := new(MockPriceHistoryRepository)
	service := NewPriceHistoryService(mockStockRepo, mockHistoryRepo)

	ctx := context.Background()
	stockID := newTestStockID()
	bars := []market.PriceBar{createTestBar(stockID, 15, 120.50)}

	mockHistoryRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(bars, nil)
	mockHistoryRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	result, total, err := service.List(ctx, HistoryListFilter{Page: 1, PageSize: 10})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), total)
	mockHistoryRepo.AssertExpectations(t)
}
