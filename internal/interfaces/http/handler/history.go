package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	marketapp "github.com/marketlens/backend/internal/application/market"
	"github.com/shopspring/decimal"
)

// PriceHistoryHandler handles daily price history API endpoints
type PriceHistoryHandler struct {
	BaseHandler
	historyService *marketapp.PriceHistoryService
}

// NewPriceHistoryHandler creates a new PriceHistoryHandler
func NewPriceHistoryHandler(historyService *marketapp.PriceHistoryService) *PriceHistoryHandler {
	return &PriceHistoryHandler{
		historyService: historyService,
	}
}

// RecordBarRequest represents a request to record one daily price bar
// @Description Request body for recording a daily OHLCV bar
type RecordBarRequest struct {
	Date          string   `json:"date" binding:"required" example:"2020-01-15"`
	Open          float64  `json:"open" binding:"gte=0" example:"100.50"`
	High          float64  `json:"high" binding:"gte=0" example:"104.25"`
	Low           float64  `json:"low" binding:"gte=0" example:"99.10"`
	Close         float64  `json:"close" binding:"gte=0" example:"103.00"`
	AdjustedClose *float64 `json:"adjusted_close" binding:"omitempty,gte=0" example:"103.00"`
	Volume        int64    `json:"volume" binding:"min=0" example:"1250000"`
}

// RecordBarsRequest represents a bulk request to record daily price bars
// @Description Request body for recording a batch of daily OHLCV bars
type RecordBarsRequest struct {
	Bars []RecordBarRequest `json:"bars" binding:"required,min=1,dive"`
}

// toAppRequest converts a wire-level bar to the application DTO.
// An omitted adjusted close falls back to the close.
func (r RecordBarRequest) toAppRequest() (marketapp.RecordBarRequest, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return marketapp.RecordBarRequest{}, err
	}

	closePrice := decimal.NewFromFloat(r.Close)
	adjusted := closePrice
	if r.AdjustedClose != nil {
		adjusted = decimal.NewFromFloat(*r.AdjustedClose)
	}

	return marketapp.RecordBarRequest{
		Date:          date,
		Open:          decimal.NewFromFloat(r.Open),
		High:          decimal.NewFromFloat(r.High),
		Low:           decimal.NewFromFloat(r.Low),
		Close:         closePrice,
		AdjustedClose: adjusted,
		Volume:        r.Volume,
	}, nil
}

// RecordBar godoc
// @ID           recordPriceBar
// @Summary      Record a daily price bar
// @Description  Record one daily OHLCV bar for a stock
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Param        request body RecordBarRequest true "Daily bar"
// @Success      201 {object} APIResponse[marketapp.PriceBarResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id}/history [post]
func (h *PriceHistoryHandler) RecordBar(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	var req RecordBarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bar, err := h.historyService.RecordBar(c.Request.Context(), stockID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bar)
}

// RecordBars godoc
// @ID           recordPriceBars
// @Summary      Record daily price bars in bulk
// @Description  Record a batch of daily OHLCV bars for a stock in one transaction
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Param        request body RecordBarsRequest true "Batch of daily bars"
// @Success      201 {object} APIResponse[[]marketapp.PriceBarResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id}/history/bulk [post]
func (h *PriceHistoryHandler) RecordBars(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	var req RecordBarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReqs := make([]marketapp.RecordBarRequest, 0, len(req.Bars))
	for _, bar := range req.Bars {
		appReq, err := bar.toAppRequest()
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReqs = append(appReqs, appReq)
	}

	bars, err := h.historyService.RecordBars(c.Request.Context(), stockID, appReqs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bars)
}

// ListByStock godoc
// @ID           listStockHistory
// @Summary      List a stock's price history
// @Description  Retrieve a paginated list of daily bars for one stock, newest first
// @Tags         history
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]marketapp.PriceBarResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id}/history [get]
func (h *PriceHistoryHandler) ListByStock(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	var filter marketapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	bars, total, err := h.historyService.ListByStock(c.Request.Context(), stockID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bars, total, filter.Page, filter.PageSize)
}

// List godoc
// @ID           listHistory
// @Summary      List price history across all stocks
// @Description  Retrieve a paginated list of daily bars across the whole catalog
// @Tags         history
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]marketapp.PriceBarResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/history [get]
func (h *PriceHistoryHandler) List(c *gin.Context) {
	var filter marketapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	bars, total, err := h.historyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bars, total, filter.Page, filter.PageSize)
}
