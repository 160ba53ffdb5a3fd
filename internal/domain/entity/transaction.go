package entity

import (
	"time"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
)

// TransactionType classifies an audit ledger entry
type TransactionType string

// Transaction types
const (
	TypeBonus        TransactionType = "bonus"
	TypePurchase     TransactionType = "purchase"
	TypeSubscription TransactionType = "subscription"
	TypeRenewal      TransactionType = "renewal"
	TypeSpend        TransactionType = "spend"
)

// Transaction is an append-only audit row recording a signed balance delta.
// Rows are created once and never mutated or deleted.
type Transaction struct {
	ID             string
	UserID         string
	Type           TransactionType
	Amount         float64 // signed: positive for credits, negative for debits
	Description    string
	StripeChargeID string
	Created        time.Time
}

// NewCreditTransaction builds an audit row for a balance increase.
// The amount must be positive; it is recorded as-is.
func NewCreditTransaction(
	userID string,
	txnType TransactionType,
	amount float64,
	description string,
	stripeChargeID string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if !isCreditType(txnType) {
		return nil, errs.ErrInvalidRequest
	}

	return &Transaction{
		UserID:         userID,
		Type:           txnType,
		Amount:         RoundCoins(amount),
		Description:    description,
		StripeChargeID: stripeChargeID,
		Created:        timeProvider.Now(),
	}, nil
}

// NewDebitTransaction builds an audit row for a balance decrease.
// The amount must be positive; it is recorded negated.
func NewDebitTransaction(
	userID string,
	amount float64,
	description string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	return &Transaction{
		UserID:      userID,
		Type:        TypeSpend,
		Amount:      -RoundCoins(amount),
		Description: description,
		Created:     timeProvider.Now(),
	}, nil
}

// IsCredit reports whether this entry increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit reports whether this entry decreased the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

func isCreditType(txnType TransactionType) bool {
	switch txnType {
	case TypeBonus, TypePurchase, TypeSubscription, TypeRenewal:
		return true
	default:
		return false
	}
}
