package order

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrKYCLimitExceeded  = errors.New("order amount exceeds the user's kyc limit")
	ErrKYCRequired       = errors.New("kyc verification is required before trading")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
	ErrOrderClosed       = errors.New("order is already in a terminal status")
)
