package entity

import (
	"fmt"
	"math"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
)

// Coin amounts are stored as floats by the user store. Two decimal places is
// the finest granularity any product or service cost uses.
const coinPrecision = 100

// ValidateAmount checks that a ledger amount is positive and finite
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: not a finite number", errs.ErrInvalidAmount)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: must be positive, got %v", errs.ErrInvalidAmount, amount)
	}
	return nil
}

// RoundCoins normalizes a coin amount to two decimal places
func RoundCoins(amount float64) float64 {
	return math.Round(amount*coinPrecision) / coinPrecision
}

// FormatCoins renders a coin amount with two decimal places for messages
func FormatCoins(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
