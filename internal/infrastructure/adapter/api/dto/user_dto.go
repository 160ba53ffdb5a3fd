package dto

import (
	"time"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
)

// UserResponse is the public shape of a user record
type UserResponse struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	Verified           bool    `json:"verified"`
	Avatar             string  `json:"avatar,omitempty"`
	Coins              float64 `json:"coins"`
	SubscriptionStatus string  `json:"subscription_status"`
	ActivePlanName     string  `json:"active_plan_name,omitempty"`
	Created            string  `json:"created,omitempty"`
}

// NewUserResponse maps a user entity to its public shape
func NewUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Verified:           user.Verified,
		Avatar:             user.Avatar,
		Coins:              user.Coins,
		SubscriptionStatus: string(user.SubscriptionStatus),
		ActivePlanName:     user.ActivePlanName,
	}
	if !user.Created.IsZero() {
		resp.Created = user.Created.Format(time.RFC3339)
	}
	return resp
}

// TransactionResponse is one audit ledger row
type TransactionResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	StripeChargeID string  `json:"stripe_charge_id,omitempty"`
	Created        string  `json:"created"`
}

// TransactionListResponse is the body of GET /users/me/transactions
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// NewTransactionListResponse maps ledger entries to their public shape
func NewTransactionListResponse(transactions []entity.Transaction) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		items = append(items, TransactionResponse{
			ID:             txn.ID,
			Type:           string(txn.Type),
			Amount:         txn.Amount,
			Description:    txn.Description,
			StripeChargeID: txn.StripeChargeID,
			Created:        txn.Created.Format(time.RFC3339),
		})
	}
	return TransactionListResponse{Transactions: items}
}
