package dto

// CheckoutRequest is the body of POST /payments/checkout
type CheckoutRequest struct {
	PriceID    string `json:"price_id" binding:"required"`
	Mode       string `json:"mode" binding:"required,oneof=payment subscription"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

// CheckoutResponse carries the hosted checkout session URL
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalRequest is the body of POST /payments/portal
type PortalRequest struct {
	ReturnURL string `json:"return_url" binding:"required,url"`
}

// PortalResponse carries the billing portal session URL
type PortalResponse struct {
	URL string `json:"url"`
}
