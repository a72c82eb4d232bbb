// Package ledger holds the balance arithmetic shared by the stock movement
// and wallet transfer handlers. Every mutation of a stored quantity goes
// through these functions so the non-negativity rule lives in one place.
package ledger

import (
	"errors"

	"ventas_backend/internal/domain" // Movement type constants
)

var (
	// ErrNegativeStock is returned when a movement would drive stock below zero
	ErrNegativeStock = errors.New("ledger: resulting stock would be negative")
	// ErrInsufficientFunds is returned when a transfer exceeds the source balance
	ErrInsufficientFunds = errors.New("ledger: insufficient funds in source wallet")
	// ErrUnknownMovementType is returned for a tipo outside {entrada, salida}
	ErrUnknownMovementType = errors.New("ledger: unknown movement type")
)

// ApplyMovement returns the stock that results from applying a movement of
// the given type and quantity. entrada adds, salida subtracts.
func ApplyMovement(current float64, tipo string, cantidad float64) (float64, error) {
	var next float64
	switch tipo {
	case domain.MovementIn:
		next = current + cantidad
	case domain.MovementOut:
		next = current - cantidad
	default:
		return current, ErrUnknownMovementType
	}
	if next < 0 {
		return current, ErrNegativeStock
	}
	return next, nil
}

// EditDelta returns the stock adjustment produced by changing an existing
// movement's quantity from oldCantidad to newCantidad. The original effect is
// backed out and the new one applied in a single signed delta.
func EditDelta(tipo string, oldCantidad, newCantidad float64) (float64, error) {
	switch tipo {
	case domain.MovementIn:
		return newCantidad - oldCantidad, nil
	case domain.MovementOut:
		return oldCantidad - newCantidad, nil
	default:
		return 0, ErrUnknownMovementType
	}
}

// ApplyDelta adds a signed delta to the current stock, enforcing the
// non-negativity rule.
func ApplyDelta(current, delta float64) (float64, error) {
	next := current + delta
	if next < 0 {
		return current, ErrNegativeStock
	}
	return next, nil
}

// ReverseMovement returns the stock after backing out an existing movement,
// used when a movement record is deleted. Deleting an entrada subtracts its
// quantity, deleting a salida adds it back.
func ReverseMovement(current float64, tipo string, cantidad float64) (float64, error) {
	switch tipo {
	case domain.MovementIn:
		return ApplyMovement(current, domain.MovementOut, cantidad)
	case domain.MovementOut:
		return ApplyMovement(current, domain.MovementIn, cantidad)
	default:
		return current, ErrUnknownMovementType
	}
}

// TransferBalances returns the source and destination balances that result
// from moving monto between two wallets. The source must cover the amount.
func TransferBalances(source, dest, monto float64) (float64, float64, error) {
	if source < monto {
		return source, dest, ErrInsufficientFunds
	}
	return source - monto, dest + monto, nil
}
