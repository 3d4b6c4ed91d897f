package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rovelin/investment-tracker/internal/application"
	"github.com/rovelin/investment-tracker/internal/domain"
)

// InvestmentService covers the record lifecycle operations.
type InvestmentService interface {
	Add(ctx context.Context, userID string, inv domain.Investment) (*domain.Investment, error)
	Update(ctx context.Context, userID, id string, upd application.InvestmentUpdate) (*domain.Investment, error)
	List(ctx context.Context, userID string) ([]domain.Investment, error)
	Get(ctx context.Context, userID, id string) (*domain.Investment, error)
	Delete(ctx context.Context, userID, id string) error
	ClearAll(ctx context.Context, userID string) error
}

// ValuationService covers the computed portfolio views.
type ValuationService interface {
	CalculatePortfolio(ctx context.Context, userID, displayCurrency string) (*domain.Portfolio, error)
	Stats(ctx context.Context, userID, displayCurrency string) (*application.PortfolioStats, error)
	TopPerformers(ctx context.Context, userID, displayCurrency string, limit int) ([]domain.Investment, error)
	WorstPerformers(ctx context.Context, userID, displayCurrency string, limit int) ([]domain.Investment, error)
	Distribution(ctx context.Context, userID, displayCurrency string) (*application.TypeDistribution, error)
}

type Handler struct {
	investments     InvestmentService
	valuation       ValuationService
	defaultCurrency string
}

func NewHandler(investments InvestmentService, valuation ValuationService, defaultCurrency string) *Handler {
	return &Handler{
		investments:     investments,
		valuation:       valuation,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// InvestmentRequest is the write shape for investments. Field-level
// validation is deliberately left to the domain so the response can list
// every violation at once instead of failing on the first missing field.
type InvestmentRequest struct {
	Type                   string          `json:"type"`
	TokenID                string          `json:"token_id"`
	Symbol                 string          `json:"symbol"`
	Name                   string          `json:"name"`
	Quantity               domain.Decimal  `json:"quantity"`
	PurchasePrice          domain.Decimal  `json:"purchase_price"`
	PurchasePriceCurrency  string          `json:"purchase_price_currency"`
	PurchaseDate           domain.Date     `json:"purchase_date"`
	TransactionFee         *domain.Decimal `json:"transaction_fee"`
	TransactionFeeCurrency string          `json:"transaction_fee_currency"`
}

func (r *InvestmentRequest) toDomain() domain.Investment {
	return domain.Investment{
		AssetClass:             domain.AssetClass(r.Type),
		MarketID:               r.TokenID,
		Symbol:                 r.Symbol,
		Name:                   r.Name,
		Quantity:               r.Quantity,
		UnitPurchasePrice:      r.PurchasePrice,
		PurchaseCurrency:       r.PurchasePriceCurrency,
		PurchaseDate:           r.PurchaseDate,
		TransactionFee:         r.TransactionFee,
		TransactionFeeCurrency: r.TransactionFeeCurrency,
	}
}

// UpdateInvestmentRequest carries a partial edit; absent fields stay unchanged.
type UpdateInvestmentRequest struct {
	Type                   *string         `json:"type"`
	TokenID                *string         `json:"token_id"`
	Symbol                 *string         `json:"symbol"`
	Name                   *string         `json:"name"`
	Quantity               *domain.Decimal `json:"quantity"`
	PurchasePrice          *domain.Decimal `json:"purchase_price"`
	PurchasePriceCurrency  *string         `json:"purchase_price_currency"`
	PurchaseDate           *domain.Date    `json:"purchase_date"`
	TransactionFee         *domain.Decimal `json:"transaction_fee"`
	TransactionFeeCurrency *string         `json:"transaction_fee_currency"`
}

func (r *UpdateInvestmentRequest) toUpdate() application.InvestmentUpdate {
	upd := application.InvestmentUpdate{
		MarketID:               r.TokenID,
		Symbol:                 r.Symbol,
		Name:                   r.Name,
		Quantity:               r.Quantity,
		UnitPurchasePrice:      r.PurchasePrice,
		PurchaseCurrency:       r.PurchasePriceCurrency,
		PurchaseDate:           r.PurchaseDate,
		TransactionFee:         r.TransactionFee,
		TransactionFeeCurrency: r.TransactionFeeCurrency,
	}
	if r.Type != nil {
		class := domain.AssetClass(*r.Type)
		upd.AssetClass = &class
	}
	return upd
}

func (h *Handler) AddInvestment(c *gin.Context) {
	var req InvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	inv, err := h.investments.Add(c.Request.Context(), currentUserID(c), req.toDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) ListInvestments(c *gin.Context) {
	investments, err := h.investments.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investments)
}

func (h *Handler) GetInvestment(c *gin.Context) {
	inv, err := h.investments.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	inv, err := h.investments.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req.toUpdate())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	if err := h.investments.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) ClearInvestments(c *gin.Context) {
	if err := h.investments.ClearAll(c.Request.Context(), currentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	portfolio, err := h.valuation.CalculatePortfolio(c.Request.Context(), currentUserID(c), h.displayCurrency(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.valuation.Stats(c.Request.Context(), currentUserID(c), h.displayCurrency(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetTopPerformers(c *gin.Context) {
	performers, err := h.valuation.TopPerformers(c.Request.Context(), currentUserID(c), h.displayCurrency(c), h.limit(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, performers)
}

func (h *Handler) GetWorstPerformers(c *gin.Context) {
	performers, err := h.valuation.WorstPerformers(c.Request.Context(), currentUserID(c), h.displayCurrency(c), h.limit(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, performers)
}

func (h *Handler) GetDistribution(c *gin.Context) {
	dist, err := h.valuation.Distribution(c.Request.Context(), currentUserID(c), h.displayCurrency(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dist)
}

// displayCurrency resolves the snapshot currency once per request.
func (h *Handler) displayCurrency(c *gin.Context) string {
	if currency := strings.TrimSpace(c.Query("currency")); currency != "" {
		return strings.ToUpper(currency)
	}
	return h.defaultCurrency
}

func (h *Handler) limit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		return 5
	}
	return limit
}

func (h *Handler) respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:      "invalid investment",
			Violations: ve.Violations,
			Warnings:   ve.Warnings,
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: domain.ErrNotAuthenticated.Error()})
	default:
		slog.ErrorContext(ctx, "Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
