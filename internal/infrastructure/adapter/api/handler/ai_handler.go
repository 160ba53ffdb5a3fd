package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	assistUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/assist"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/middleware"
)

// AIHandler handles metered generative AI HTTP requests
type AIHandler struct {
	assistService *assistUseCase.Service
	logger        coreport.Logger
}

// NewAIHandler creates a new AI handler instance
func NewAIHandler(assistService *assistUseCase.Service, logger coreport.Logger) *AIHandler {
	return &AIHandler{
		assistService: assistService,
		logger:        logger,
	}
}

// Chat handles the POST /ai/text/chat endpoint
func (h *AIHandler) Chat(c *gin.Context) {
	h.metered(c, h.assistService.Chat)
}

// GenerateImage handles the POST /ai/image/generate endpoint
func (h *AIHandler) GenerateImage(c *gin.Context) {
	h.metered(c, h.assistService.GenerateImage)
}

func (h *AIHandler) metered(
	c *gin.Context,
	invoke func(ctx context.Context, userID, prompt string) (*assistUseCase.Result, error),
) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	var req dto.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := invoke(c.Request.Context(), user.ID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AIResponse{
		Response:       result.Response,
		CoinsBurned:    result.CoinsBurned,
		NewCoinBalance: result.NewBalance,
	})
}
