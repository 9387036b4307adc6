package handlers

import (
	"errors"
	"strconv"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/notification"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications, newest first.
// Pass unread=true to filter to unread only.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	unreadOnly := c.Query("unread") == "true"
	pagination := utils.GetPagination(c, 1, 20)

	notifications, total, err := h.notificationService.ListForUser(c.Context(), claims.UserID, unreadOnly, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list notifications")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(notifications, pagination))
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), claims.UserID, uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return utils.NotFound(c, "Notification not found")
		}
		return utils.InternalError(c, "Failed to mark notification read")
	}

	return utils.Success(c, fiber.Map{"message": "Notification marked as read"})
}

// Broadcast sends an announcement to every active user. Back office
// only.
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	count, err := h.notificationService.Broadcast(c.Context(), input.Title, input.Body, claims.Email)
	if err != nil {
		if errors.Is(err, notification.ErrEmptyBroadcast) {
			return utils.BadRequest(c, "title is required")
		}
		return utils.InternalError(c, "Failed to broadcast")
	}

	return utils.Success(c, fiber.Map{
		"message":    "Broadcast sent",
		"recipients": count,
	})
}
