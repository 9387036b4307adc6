package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin back-office permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Customer permissions
	PermissionQuoteRead      = "quote:read"
	PermissionOrderRead      = "order:read"
	PermissionOrderWrite     = "order:write"
	PermissionKYCSubmit      = "kyc:submit"
	PermissionChangePassword = "user:change-password"

	// Back-office fee configuration permissions
	PermissionFeeConfigRead  = "feeconfig:read"
	PermissionFeeConfigWrite = "feeconfig:write"

	// KYC review permissions
	PermissionKYCReview = "kyc:review"

	// Notification permissions
	PermissionNotifyBroadcast = "notify:broadcast"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionQuoteRead,
			PermissionOrderRead,
			PermissionOrderWrite,
			PermissionFeeConfigRead,
			PermissionFeeConfigWrite,
			PermissionKYCReview,
			PermissionNotifyBroadcast,
			PermissionChangePassword,
		}
	case "operator":
		return []string{
			PermissionReadAdmin,
			PermissionQuoteRead,
			PermissionOrderRead,
			PermissionFeeConfigRead,
			PermissionKYCReview,
			PermissionChangePassword,
		}
	case "customer":
		return []string{
			PermissionQuoteRead,
			PermissionOrderRead,
			PermissionOrderWrite,
			PermissionKYCSubmit,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
