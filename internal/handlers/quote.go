package handlers

import (
	"errors"

	"balcao/internal/repositories"
	"balcao/internal/services/pricefeed"
	"balcao/internal/services/pricing"
	"balcao/internal/services/quote"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	quoteService quote.Service
}

func NewQuoteHandler(quoteService quote.Service) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// GetQuote prices a prospective buy or sell without creating an order.
func (h *QuoteHandler) GetQuote(c *fiber.Ctx) error {
	var input struct {
		Symbol    string  `json:"symbol"`
		Operation string  `json:"operation"`
		Amount    float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	res, err := h.quoteService.GetQuote(c.Context(), quote.Request{
		Symbol:    input.Symbol,
		Operation: pricing.Operation(input.Operation),
		Amount:    input.Amount,
	})
	if err != nil {
		return quoteError(c, err)
	}

	return utils.Success(c, res)
}

// ListAssets returns the storefront listing with current prices.
func (h *QuoteHandler) ListAssets(c *fiber.Ctx) error {
	assets, err := h.quoteService.ListAssets(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list assets")
	}
	return utils.Success(c, fiber.Map{"assets": assets})
}

// quoteError maps pricing and feed failures onto HTTP statuses. Stale
// or missing prices are 503 so clients retry rather than treat the
// asset as gone.
func quoteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrAssetNotFound):
		return utils.NotFound(c, "Unknown asset")
	case errors.Is(err, quote.ErrAssetDisabled):
		return utils.BadRequest(c, "Asset is not enabled for trading")
	case errors.Is(err, pricefeed.ErrPriceStale), errors.Is(err, pricefeed.ErrPriceUnavailable):
		return utils.Respond(c, fiber.StatusServiceUnavailable, fiber.Map{"error": "Price temporarily unavailable"})
	case errors.Is(err, pricing.ErrInvalidOperation),
		errors.Is(err, pricing.ErrInvalidAmount),
		errors.Is(err, pricing.ErrInvalidBasePrice):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, "Failed to compute quote")
	}
}
