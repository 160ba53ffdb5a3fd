package assist

import (
	"context"
	"fmt"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	"github.com/bugswriter/bizniz-api/internal/domain/usecase/ledger"
)

// Default per-call coin costs
const (
	DefaultTextCost  = 1.0
	DefaultImageCost = 5.0
)

// Result is a metered AI response with the billing outcome attached
type Result struct {
	Response    string
	CoinsBurned float64
	NewBalance  float64
}

// Service proxies generative AI calls and meters them against the coin
// balance. The order is deliberate: a fresh balance pre-check rejects broke
// users up front, the provider call runs next, and the debit lands only
// after the provider succeeded. A user is never charged for a failed call.
// A failed debit after a successful call is logged and absorbed; the user
// keeps the response.
type Service struct {
	ai        provider.AIProvider
	users     provider.UserStore
	ledger    *ledger.Service
	logger    coreport.Logger
	textCost  float64
	imageCost float64
}

// NewService creates a new metered AI service
func NewService(
	ai provider.AIProvider,
	users provider.UserStore,
	ledgerSvc *ledger.Service,
	logger coreport.Logger,
	textCost, imageCost float64,
) *Service {
	if textCost <= 0 {
		textCost = DefaultTextCost
	}
	if imageCost <= 0 {
		imageCost = DefaultImageCost
	}
	return &Service{
		ai:        ai,
		users:     users,
		ledger:    ledgerSvc,
		logger:    logger,
		textCost:  textCost,
		imageCost: imageCost,
	}
}

// TextCost returns the per-call cost of a chat request
func (s *Service) TextCost() float64 { return s.textCost }

// ImageCost returns the per-call cost of an image request
func (s *Service) ImageCost() float64 { return s.imageCost }

// Chat runs a metered text generation request
func (s *Service) Chat(ctx context.Context, userID, prompt string) (*Result, error) {
	return s.metered(ctx, userID, s.textCost, "Gemini Text Generation", func(ctx context.Context) (string, error) {
		return s.ai.GenerateText(ctx, prompt)
	})
}

// GenerateImage runs a metered image generation request. The response is a
// base64 data URI.
func (s *Service) GenerateImage(ctx context.Context, userID, prompt string) (*Result, error) {
	return s.metered(ctx, userID, s.imageCost, "Gemini Image Generation", func(ctx context.Context) (string, error) {
		return s.ai.GenerateImage(ctx, prompt)
	})
}

func (s *Service) metered(
	ctx context.Context,
	userID string,
	cost float64,
	description string,
	invoke func(ctx context.Context) (string, error),
) (*Result, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanCover(cost) {
		return nil, errs.NewInsufficientCoinsError(userID, cost, user.Coins)
	}

	response, err := invoke(ctx)
	if err != nil {
		s.logger.Error("AI provider call failed, nothing charged", map[string]any{
			"user_id": userID,
			"cost":    cost,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}

	newBalance := entity.RoundCoins(user.Coins - cost)
	if err := s.ledger.Debit(ctx, userID, cost, description); err != nil {
		// The provider call succeeded; losing the charge is preferable to
		// failing the response the user already paid compute for.
		s.logger.Error("CRITICAL: failed to burn coins after successful AI call", map[string]any{
			"user_id": userID,
			"cost":    cost,
			"error":   err.Error(),
		})
		newBalance = user.Coins
	}

	if fresh, err := s.users.GetUserByID(ctx, userID); err == nil {
		newBalance = fresh.Coins
	}

	return &Result{
		Response:    response,
		CoinsBurned: cost,
		NewBalance:  newBalance,
	}, nil
}
