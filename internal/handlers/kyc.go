package handlers

import (
	"errors"
	"strconv"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/kyc"
	"balcao/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	kycService kyc.Service
}

func NewKYCHandler(kycService kyc.Service) *KYCHandler {
	return &KYCHandler{
		kycService: kycService,
	}
}

// SubmitVerification receives identity documents for manual review.
func (h *KYCHandler) SubmitVerification(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		DocumentID  string `json:"document_id"`
		DocumentURL string `json:"document_url"`
		ProofURL    string `json:"proof_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.DocumentID == "" || input.DocumentURL == "" {
		return utils.BadRequest(c, "document_id and document_url are required")
	}

	verification, err := h.kycService.Submit(c.Context(), claims.UserID, kyc.SubmitRequest{
		DocumentID:  input.DocumentID,
		DocumentURL: input.DocumentURL,
		ProofURL:    input.ProofURL,
	})
	if err != nil {
		if errors.Is(err, kyc.ErrAlreadyPending) {
			return utils.Conflict(c, "A verification is already under review")
		}
		return utils.InternalError(c, "Failed to submit verification")
	}

	return utils.Created(c, verification)
}

// GetStatus returns the caller's latest verification.
func (h *KYCHandler) GetStatus(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	verification, err := h.kycService.StatusForUser(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return utils.Success(c, fiber.Map{"status": "none"})
		}
		return utils.InternalError(c, "Failed to get verification status")
	}

	return utils.Success(c, verification)
}

// PendingQueue lists verifications awaiting review, oldest first.
func (h *KYCHandler) PendingQueue(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)
	queue, total, err := h.kycService.PendingQueue(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list pending verifications")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(queue, pagination))
}

// Approve grants a KYC level to the submitted verification.
func (h *KYCHandler) Approve(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid verification ID")
	}

	var input struct {
		Level int `json:"level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	verification, err := h.kycService.Approve(c.Context(), uint(id), input.Level, claims.Email)
	if err != nil {
		return kycReviewError(c, err)
	}

	return utils.Success(c, verification)
}

// Reject declines a verification with a mandatory reason.
func (h *KYCHandler) Reject(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid verification ID")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	verification, err := h.kycService.Reject(c.Context(), uint(id), input.Reason, claims.Email)
	if err != nil {
		return kycReviewError(c, err)
	}

	return utils.Success(c, verification)
}

func kycReviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrKYCNotFound):
		return utils.NotFound(c, "Verification not found")
	case errors.Is(err, kyc.ErrNotPending):
		return utils.Conflict(c, "Verification has already been reviewed")
	case errors.Is(err, kyc.ErrInvalidLevel), errors.Is(err, kyc.ErrEmptyReason):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, "Failed to review verification")
	}
}
