package dto

// PromptRequest is the body of the AI generation endpoints
type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required,max=8000"`
}

// AIResponse is a metered AI result with the billing outcome attached
type AIResponse struct {
	Response       string  `json:"response"`
	CoinsBurned    float64 `json:"coins_burned"`
	NewCoinBalance float64 `json:"new_coin_balance"`
}
