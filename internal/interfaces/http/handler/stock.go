package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	marketapp "github.com/marketlens/backend/internal/application/market"
)

// StockHandler handles stock catalog API endpoints
type StockHandler struct {
	BaseHandler
	stockService *marketapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *marketapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// CreateStockRequest represents a request to create a new stock
// @Description Request body for creating a new stock
type CreateStockRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200" example:"Apple Inc."`
	Symbol      string `json:"symbol" binding:"required,min=1,max=20" example:"AAPL"`
	Founded     string `json:"founded" binding:"required" example:"1976-04-01"`
	Description string `json:"description" binding:"max=2000" example:"Consumer electronics and software"`
}

// UpdateStockRequest represents a request to update a stock
// @Description Request body for updating a stock
type UpdateStockRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200" example:"Apple Inc."`
	Symbol      *string `json:"symbol" binding:"omitempty,min=1,max=20" example:"AAPL"`
	Founded     *string `json:"founded" example:"1976-04-01"`
	Description *string `json:"description" binding:"omitempty,max=2000" example:"Updated description"`
}

// parseDate parses a wire-format trading date
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(marketapp.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", field)
	}
	return t, nil
}

// foundedLayouts are the accepted founding-date formats: RFC3339,
// ISO-8601 without a zone, and a bare date.
var foundedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	marketapp.DateLayout,
}

// parseFounded parses a founding date in any accepted layout.
func parseFounded(value string) (time.Time, error) {
	for _, layout := range foundedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("founded must be an RFC3339 datetime or a YYYY-MM-DD date")
}

// Create godoc
// @ID           createStock
// @Summary      Create a new stock
// @Description  Register a new stock in the catalog
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        request body CreateStockRequest true "Stock creation request"
// @Success      201 {object} APIResponse[marketapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	founded, err := parseFounded(req.Founded)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := marketapp.CreateStockRequest{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Founded:     founded,
		Description: req.Description,
	}

	stock, err := h.stockService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, stock)
}

// GetByID godoc
// @ID           getStockById
// @Summary      Get stock by ID
// @Description  Retrieve a stock by its ID
// @Tags         stocks
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Success      200 {object} APIResponse[marketapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id} [get]
func (h *StockHandler) GetByID(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	stock, err := h.stockService.GetByID(c.Request.Context(), stockID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// GetBySymbol godoc
// @ID           getStockBySymbol
// @Summary      Get stock by symbol
// @Description  Retrieve a stock by its ticker symbol (case-insensitive)
// @Tags         stocks
// @Produce      json
// @Param        symbol path string true "Ticker symbol"
// @Success      200 {object} APIResponse[marketapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/symbol/{symbol} [get]
func (h *StockHandler) GetBySymbol(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		h.BadRequest(c, "Stock symbol is required")
		return
	}

	stock, err := h.stockService.GetBySymbol(c.Request.Context(), symbol)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// List godoc
// @ID           listStocks
// @Summary      List stocks
// @Description  Retrieve a paginated list of stocks with optional search
// @Tags         stocks
// @Produce      json
// @Param        search query string false "Search term (name, symbol)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        sort_by query string false "Sort field" default(created_at)
// @Param        sort_desc query bool false "Sort descending" default(true)
// @Success      200 {object} APIResponse[[]marketapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks [get]
func (h *StockHandler) List(c *gin.Context) {
	var filter marketapp.StockListFilter
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

	stocks, total, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, stocks, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateStock
// @Summary      Update a stock
// @Description  Update an existing stock's details
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Param        request body UpdateStockRequest true "Stock update request"
// @Success      200 {object} APIResponse[marketapp.StockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id} [put]
func (h *StockHandler) Update(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := marketapp.UpdateStockRequest{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
	}

	if req.Founded != nil {
		founded, err := parseFounded(*req.Founded)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Founded = &founded
	}

	stock, err := h.stockService.Update(c.Request.Context(), stockID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// Delete godoc
// @ID           deleteStock
// @Summary      Delete a stock
// @Description  Delete a stock and its recorded price history
// @Tags         stocks
// @Produce      json
// @Param        id path string true "Stock ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/stocks/{id} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock ID format")
		return
	}

	err = h.stockService.Delete(c.Request.Context(), stockID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
