package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	ledgerUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/ledger"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/middleware"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	ledgerService *ledgerUseCase.Service
	logger        coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(ledgerService *ledgerUseCase.Service, logger coreport.Logger) *UserHandler {
	return &UserHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Me handles the GET /users/me endpoint. The auth middleware already fetched
// a fresh record, so this is a plain read of the request context.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Transactions handles the GET /users/me/transactions endpoint
func (h *UserHandler) Transactions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	transactions, err := h.ledgerService.History(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list transactions", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionListResponse(transactions))
}
