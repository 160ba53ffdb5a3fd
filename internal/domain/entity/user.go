package entity

import (
	"time"
)

// SubscriptionStatus represents the mirrored Stripe subscription state
type SubscriptionStatus string

// Subscription statuses
const (
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCanceling SubscriptionStatus = "canceling"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// User mirrors a record from the PocketBase users collection.
// The coin balance is mutated only through the ledger; subscription fields
// are mutated only by webhook reconciliation.
type User struct {
	ID                   string
	Email                string
	Name                 string
	Verified             bool
	Avatar               string
	Coins                float64
	SubscriptionStatus   SubscriptionStatus
	StripeCustomerID     string
	StripeSubscriptionID string
	ActivePlanName       string
	Created              time.Time
	Updated              time.Time
}

// CanCover reports whether the balance covers the given debit amount
func (u *User) CanCover(amount float64) bool {
	return u.Coins >= amount
}

// HasSubscription reports whether the user currently holds a subscription,
// including one scheduled for cancellation
func (u *User) HasSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionCanceling
}

// AuthSession is the result of a successful authentication against the user store
type AuthSession struct {
	Token string
	User  *User
}

// OAuthProvider describes a configured OAuth2 provider the frontend can use
type OAuthProvider struct {
	Name                string `json:"name"`
	DisplayName         string `json:"displayName"`
	State               string `json:"state"`
	AuthURL             string `json:"authUrl"`
	CodeVerifier        string `json:"codeVerifier"`
	CodeChallenge       string `json:"codeChallenge"`
	CodeChallengeMethod string `json:"codeChallengeMethod"`
}
