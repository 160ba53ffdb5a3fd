package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
)

func TestValidateAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []float64{0.01, 1, 1.5, 10, 9999.99}

		for _, amount := range testCases {
			assert.NoError(t, ValidateAmount(amount))
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       float64
			description string
		}{
			{0, "Zero"},
			{-1, "Negative"},
			{math.NaN(), "NaN"},
			{math.Inf(1), "Positive infinity"},
			{math.Inf(-1), "Negative infinity"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				err := ValidateAmount(tc.input)
				assert.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrInvalidAmount)
			})
		}
	})
}

func TestRoundCoins(t *testing.T) {
	testCases := []struct {
		input    float64
		expected float64
	}{
		{1.005, 1.0},
		{10.005, 10.01},
		{1.006, 1.01},
		{1.0049, 1.0},
		{10, 10},
		{0.333333, 0.33},
		{99.999, 100},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, RoundCoins(tc.input), 1e-9)
	}
}

func TestFormatCoins(t *testing.T) {
	assert.Equal(t, "10.00", FormatCoins(10))
	assert.Equal(t, "0.50", FormatCoins(0.5))
	assert.Equal(t, "123.46", FormatCoins(123.456))
}
