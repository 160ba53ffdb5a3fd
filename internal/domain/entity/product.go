package entity

// Product is an active Stripe product offered for purchase. Coins is the
// credit amount granted on fulfillment, carried as product metadata in Stripe.
type Product struct {
	PriceID     string  `json:"price_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Coins       float64 `json:"coins"`
	Recurring   bool    `json:"recurring"`
}

// Catalog groups active products by purchase model
type Catalog struct {
	SubscriptionPlans []Product `json:"subscription_plans"`
	OneTimePacks      []Product `json:"one_time_packs"`
}

// LineItem is the fulfillment detail of a completed checkout session
type LineItem struct {
	ProductName string
	Coins       float64
}
