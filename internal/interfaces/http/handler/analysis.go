package handler

import (
	"github.com/gin-gonic/gin"
	marketapp "github.com/marketlens/backend/internal/application/market"
)

// AnalysisHandler handles price analysis API endpoints
type AnalysisHandler struct {
	BaseHandler
	analysisService *marketapp.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *marketapp.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalysisQuery represents the query parameters for a price analysis
type AnalysisQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// Analyze godoc
// @ID           analyzeSymbol
// @Summary      Analyze a symbol over a period
// @Description  Compute best buy/sell days, single- and multi-trade profit for the requested period, the adjacent periods, and the symbols that out-earned the requested one
// @Tags         analysis
// @Produce      json
// @Param        symbol path string true "Ticker symbol"
// @Param        start_date query string true "Period start (YYYY-MM-DD)"
// @Param        end_date query string true "Period end (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[marketapp.AnalysisResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /market/analysis/{symbol} [get]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		h.BadRequest(c, "Stock symbol is required")
		return
	}

	var query AnalysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	start, err := parseDate("start_date", query.StartDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	end, err := parseDate("end_date", query.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), symbol, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analysis)
}
