package order

import (
	"fmt"

	"balcao/internal/models"
)

// transitions is the static order status machine. A status may only
// move to one of its listed successors.
var transitions = map[string][]string{
	models.OrderStatusPending: {
		models.OrderStatusAwaitingPayment,
		models.OrderStatusCancelled,
	},
	models.OrderStatusAwaitingPayment: {
		models.OrderStatusPaid,
		models.OrderStatusCancelled,
	},
	models.OrderStatusPaid: {
		models.OrderStatusCompleted,
		models.OrderStatusDisputed,
	},
	models.OrderStatusDisputed: {
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// validateTransition returns a descriptive error naming both states
// when the move is not allowed.
func validateTransition(from, to string) error {
	if _, known := transitions[from]; !known {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	if _, known := transitions[to]; !known {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
