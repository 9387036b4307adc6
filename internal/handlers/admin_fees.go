package handlers

import (
	"errors"
	"strings"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/feeconfig"
	"balcao/internal/services/pricing"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// FeeConfigHandler exposes the back-office fee configuration surface:
// the volume tier table, per-asset price overrides, and the audit
// trail behind both.
type FeeConfigHandler struct {
	feeService feeconfig.Service
}

func NewFeeConfigHandler(feeService feeconfig.Service) *FeeConfigHandler {
	return &FeeConfigHandler{
		feeService: feeService,
	}
}

// GetTierTable returns the active volume tier table.
func (h *FeeConfigHandler) GetTierTable(c *fiber.Ctx) error {
	table, err := h.feeService.TierTable(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to load tier table")
	}
	return utils.Success(c, fiber.Map{"tiers": table.Tiers()})
}

// ReplaceTierTable swaps the whole tier table atomically. The new
// table is validated before anything is persisted; an invalid table
// leaves the old one untouched.
func (h *FeeConfigHandler) ReplaceTierTable(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Tiers []struct {
			Min  float64 `json:"min"`
			Max  float64 `json:"max"`
			Rate float64 `json:"rate"`
		} `json:"tiers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	tiers := make([]pricing.FeeTier, len(input.Tiers))
	for i, t := range input.Tiers {
		tiers[i] = pricing.FeeTier{Min: t.Min, Max: t.Max, Rate: t.Rate}
	}

	if err := h.feeService.ReplaceTierTable(c.Context(), tiers, claims.Email); err != nil {
		if isTierValidationError(err) {
			return utils.UnprocessableEntity(c, err.Error())
		}
		return utils.InternalError(c, "Failed to replace tier table")
	}

	return utils.Success(c, fiber.Map{"message": "Tier table replaced"})
}

// GetOverride returns the manual price override for an asset, if any.
func (h *FeeConfigHandler) GetOverride(c *fiber.Ctx) error {
	symbol := strings.ToUpper(c.Params("symbol"))

	ov, err := h.feeService.Override(c.Context(), symbol)
	if err != nil {
		return utils.InternalError(c, "Failed to load override")
	}
	if ov == nil {
		return utils.Success(c, fiber.Map{"asset": symbol, "override": nil})
	}
	return utils.Success(c, fiber.Map{"asset": symbol, "override": ov})
}

// SetOverride pins or adjusts an asset's price. Fixed overrides
// replace the feed price outright; percentage overrides scale it.
func (h *FeeConfigHandler) SetOverride(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	symbol := strings.ToUpper(c.Params("symbol"))

	var input struct {
		Kind  string  `json:"kind"`
		Value float64 `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	ov := pricing.Override{Kind: pricing.OverrideKind(input.Kind), Value: input.Value}
	if err := h.feeService.SetOverride(c.Context(), symbol, ov, claims.Email); err != nil {
		if errors.Is(err, pricing.ErrUnknownOverrideKind) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to set override")
	}

	return utils.Success(c, fiber.Map{"message": "Override set", "asset": symbol})
}

// ClearOverride removes an asset's manual price override.
func (h *FeeConfigHandler) ClearOverride(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	symbol := strings.ToUpper(c.Params("symbol"))

	if err := h.feeService.ClearOverride(c.Context(), symbol, claims.Email); err != nil {
		if errors.Is(err, repositories.ErrOverrideNotFound) {
			return utils.NotFound(c, "No override for asset")
		}
		return utils.InternalError(c, "Failed to clear override")
	}

	return utils.Success(c, fiber.Map{"message": "Override cleared", "asset": symbol})
}

// AuditTrail lists fee configuration mutations, newest first.
func (h *FeeConfigHandler) AuditTrail(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 50)
	entries, total, err := h.feeService.AuditTrail(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load audit trail")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(entries, pagination))
}

func isTierValidationError(err error) bool {
	for _, target := range []error{
		pricing.ErrEmptyTierTable,
		pricing.ErrTierGap,
		pricing.ErrTierOverlap,
		pricing.ErrNonMonotonicRate,
		pricing.ErrInvalidTierBound,
		pricing.ErrInvalidRate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
