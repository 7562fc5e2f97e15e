package market

import "errors"

// Domain errors for wallet actions. Actions report failure as a bool; these name the reason.
var (
	// ErrInsufficientBalance indicates the wallet cannot cover the action.
	ErrInsufficientBalance = errors.New("market: insufficient balance")

	// ErrInvalidAmount indicates a non-positive or otherwise unusable amount.
	ErrInvalidAmount = errors.New("market: invalid amount")

	// ErrNoProvider indicates a connect request without a wallet provider.
	ErrNoProvider = errors.New("market: no wallet provider")
)
