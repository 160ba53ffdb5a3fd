package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	mockcore "github.com/bugswriter/bizniz-api/mocks/port/core"
)

func TestNewCreditTransaction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tp := mockcore.FixedTimeProvider(now)

	t.Run("Valid credit", func(t *testing.T) {
		txn, err := NewCreditTransaction("user-1", TypePurchase, 50, "Purchase of Starter Pack", "pi_123", tp)

		require.NoError(t, err)
		assert.Equal(t, "user-1", txn.UserID)
		assert.Equal(t, TypePurchase, txn.Type)
		assert.Equal(t, 50.0, txn.Amount)
		assert.Equal(t, "pi_123", txn.StripeChargeID)
		assert.Equal(t, now, txn.Created)
		assert.True(t, txn.IsCredit())
		assert.False(t, txn.IsDebit())
	})

	t.Run("Amount is rounded", func(t *testing.T) {
		// 10.005*100 lands on exactly 1000.5, which rounds half away
		// from zero.
		txn, err := NewCreditTransaction("user-1", TypeBonus, 10.005, "bonus", "", tp)

		require.NoError(t, err)
		assert.Equal(t, 10.01, txn.Amount)
	})

	t.Run("Empty user id", func(t *testing.T) {
		_, err := NewCreditTransaction("", TypeBonus, 10, "bonus", "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		_, err := NewCreditTransaction("user-1", TypeBonus, 0, "bonus", "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = NewCreditTransaction("user-1", TypeBonus, -5, "bonus", "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Spend is not a credit type", func(t *testing.T) {
		_, err := NewCreditTransaction("user-1", TypeSpend, 10, "spend", "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("All credit types accepted", func(t *testing.T) {
		for _, txnType := range []TransactionType{TypeBonus, TypePurchase, TypeSubscription, TypeRenewal} {
			_, err := NewCreditTransaction("user-1", txnType, 10, "credit", "", tp)
			assert.NoError(t, err, string(txnType))
		}
	})
}

func TestNewDebitTransaction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tp := mockcore.FixedTimeProvider(now)

	t.Run("Valid debit is negated", func(t *testing.T) {
		txn, err := NewDebitTransaction("user-1", 1, "Gemini Text Generation", tp)

		require.NoError(t, err)
		assert.Equal(t, TypeSpend, txn.Type)
		assert.Equal(t, -1.0, txn.Amount)
		assert.True(t, txn.IsDebit())
		assert.False(t, txn.IsCredit())
	})

	t.Run("Empty user id", func(t *testing.T) {
		_, err := NewDebitTransaction("", 1, "spend", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		_, err := NewDebitTransaction("user-1", -1, "spend", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestUserCanCover(t *testing.T) {
	user := &User{Coins: 5}

	assert.True(t, user.CanCover(5))
	assert.True(t, user.CanCover(1))
	assert.False(t, user.CanCover(5.01))
}

func TestUserHasSubscription(t *testing.T) {
	testCases := []struct {
		status   SubscriptionStatus
		expected bool
	}{
		{SubscriptionInactive, false},
		{SubscriptionActive, true},
		{SubscriptionCanceling, true},
		{SubscriptionCancelled, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			user := &User{SubscriptionStatus: tc.status}
			assert.Equal(t, tc.expected, user.HasSubscription())
		})
	}
}
