package handlers

import (
	"errors"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/order"
	"balcao/internal/services/pricing"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder prices and registers a new P2P order for the caller.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Symbol    string  `json:"symbol"`
		Operation string  `json:"operation"`
		Amount    float64 `json:"amount"`
		PixKey    string  `json:"pix_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.orderService.Create(c.Context(), claims.UserID, order.CreateRequest{
		Symbol:    input.Symbol,
		Operation: pricing.Operation(input.Operation),
		Amount:    input.Amount,
		PixKey:    input.PixKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrKYCRequired):
			return utils.Forbidden(c, "Identity verification is required before trading")
		case errors.Is(err, order.ErrKYCLimitExceeded):
			return utils.Forbidden(c, err.Error())
		default:
			return quoteError(c, err)
		}
	}

	return utils.Created(c, created)
}

// GetOrder returns one order. Customers may only see their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	o, err := h.orderService.Get(c.Context(), c.Params("reference"))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return utils.NotFound(c, "Order not found")
		}
		return utils.InternalError(c, "Failed to get order")
	}

	if o.UserID != claims.UserID && claims.Role == "customer" {
		return utils.NotFound(c, "Order not found")
	}

	return utils.Success(c, o)
}

// ListOrders returns the caller's order history, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	orders, total, err := h.orderService.ListForUser(c.Context(), claims.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list orders")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, pagination))
}

// CancelOrder lets a customer cancel their own order while it is still
// pending or awaiting payment.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	reference := c.Params("reference")
	o, err := h.orderService.Get(c.Context(), reference)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return utils.NotFound(c, "Order not found")
		}
		return utils.InternalError(c, "Failed to get order")
	}
	if o.UserID != claims.UserID {
		return utils.NotFound(c, "Order not found")
	}

	updated, err := h.orderService.UpdateStatus(c.Context(), reference, models.OrderStatusCancelled, "cancelled by customer")
	if err != nil {
		return orderStatusError(c, err)
	}

	return utils.Success(c, updated)
}

// UpdateOrderStatus moves an order through the status machine. Back
// office only. With "force": true and status "cancelled" the transition
// table is bypassed, so operators can pull back a paid or disputed
// order; terminal orders are still refused.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
		Force  bool   `json:"force"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Status == "" {
		return utils.BadRequest(c, "status is required")
	}
	if input.Force && input.Status != models.OrderStatusCancelled {
		return utils.BadRequest(c, "force is only valid when cancelling")
	}

	var (
		updated *models.Order
		err     error
	)
	if input.Force {
		updated, err = h.orderService.ForceCancel(c.Context(), c.Params("reference"), input.Reason)
	} else {
		updated, err = h.orderService.UpdateStatus(c.Context(), c.Params("reference"), input.Status, input.Reason)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return utils.NotFound(c, "Order not found")
		}
		return orderStatusError(c, err)
	}

	return utils.Success(c, updated)
}

func orderStatusError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, order.ErrOrderClosed), errors.Is(err, order.ErrInvalidTransition):
		return utils.UnprocessableEntity(c, err.Error())
	default:
		return utils.InternalError(c, "Failed to update order")
	}
}
