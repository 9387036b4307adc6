package handlers

import (
	"balcao/internal/models"
	"balcao/internal/services/user"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUser creates a customer account. Staff accounts are seeded,
// never registered through the API.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input user.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.Create(&input)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created.Password = ""

	return utils.Created(c, fiber.Map{
		"message": "User registered successfully",
		"user":    created,
	})
}

// GetProfile returns the authenticated user's account.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	u.Password = ""
	return utils.Success(c, u)
}

// UpdatePixKey sets the PIX key sell order payouts are sent to.
func (h *UserHandler) UpdatePixKey(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		PixKey string `json:"pix_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.PixKey == "" {
		return utils.BadRequest(c, "pix_key is required")
	}

	u, err := h.userService.UpdatePixKey(claims.UserID, input.PixKey)
	if err != nil {
		return utils.InternalError(c, "Failed to update PIX key")
	}

	u.Password = ""
	return utils.Success(c, u)
}
