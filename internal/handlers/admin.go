package handlers

import (
	"errors"
	"strconv"
	"strings"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/order"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the back-office surface for users, orders, and the
// tradable asset catalog.
type AdminHandler struct {
	userRepo     repositories.UserRepository
	assetRepo    repositories.AssetRepository
	orderService order.Service
}

func NewAdminHandler(userRepo repositories.UserRepository, assetRepo repositories.AssetRepository, orderService order.Service) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		assetRepo:    assetRepo,
		orderService: orderService,
	}
}

// GetUsersPaginated lists user accounts for the back office.
func (h *AdminHandler) GetUsersPaginated(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)

	users, total, err := h.userRepo.GetPaginated(pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list users")
	}
	for i := range users {
		users[i].Password = ""
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, pagination))
}

// DeactivateUser suspends an account and invalidates its sessions.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	u, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	u.Status = "suspended"
	if err := h.userRepo.Update(u); err != nil {
		return utils.InternalError(c, "Failed to deactivate user")
	}
	if err := h.userRepo.IncrementTokenVersion(u.ID); err != nil {
		return utils.InternalError(c, "Failed to invalidate sessions")
	}

	u.Password = ""
	return utils.Success(c, u)
}

// ListOrders lists all orders, optionally filtered by status.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	status := c.Query("status")
	pagination := utils.GetPagination(c, 1, 20)

	orders, total, err := h.orderService.ListAll(c.Context(), status, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list orders")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, pagination))
}

// ListAssets returns the full asset catalog, disabled entries
// included.
func (h *AdminHandler) ListAssets(c *fiber.Ctx) error {
	assets, err := h.assetRepo.List()
	if err != nil {
		return utils.InternalError(c, "Failed to list assets")
	}
	return utils.Success(c, fiber.Map{"assets": assets})
}

// CreateAsset adds a tradable asset to the catalog.
func (h *AdminHandler) CreateAsset(c *fiber.Ctx) error {
	var input struct {
		Symbol       string  `json:"symbol"`
		Name         string  `json:"name"`
		Enabled      bool    `json:"enabled"`
		BuySpreadPct float64 `json:"buy_spread_pct"`
		FeedSymbol   string  `json:"feed_symbol"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Symbol == "" || input.Name == "" {
		return utils.BadRequest(c, "symbol and name are required")
	}

	asset := &models.Asset{
		Symbol:       strings.ToUpper(input.Symbol),
		Name:         input.Name,
		Enabled:      input.Enabled,
		BuySpreadPct: input.BuySpreadPct,
		FeedSymbol:   input.FeedSymbol,
	}
	if err := h.assetRepo.Create(asset); err != nil {
		return utils.InternalError(c, "Failed to create asset")
	}

	return utils.Created(c, asset)
}

// UpdateAsset edits an asset's listing, spread, manual price pin, or
// enabled flag.
func (h *AdminHandler) UpdateAsset(c *fiber.Ctx) error {
	symbol := strings.ToUpper(c.Params("symbol"))

	asset, err := h.assetRepo.GetBySymbol(symbol)
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			return utils.NotFound(c, "Asset not found")
		}
		return utils.InternalError(c, "Failed to get asset")
	}

	var input struct {
		Name         *string  `json:"name"`
		Enabled      *bool    `json:"enabled"`
		BuySpreadPct *float64 `json:"buy_spread_pct"`
		ManualPrice  *float64 `json:"manual_price"`
		FeedSymbol   *string  `json:"feed_symbol"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if input.Name != nil {
		asset.Name = *input.Name
	}
	if input.Enabled != nil {
		asset.Enabled = *input.Enabled
	}
	if input.BuySpreadPct != nil {
		asset.BuySpreadPct = *input.BuySpreadPct
	}
	if input.ManualPrice != nil {
		asset.ManualPrice = *input.ManualPrice
	}
	if input.FeedSymbol != nil {
		asset.FeedSymbol = *input.FeedSymbol
	}

	if err := h.assetRepo.Update(asset); err != nil {
		return utils.InternalError(c, "Failed to update asset")
	}

	return utils.Success(c, asset)
}
