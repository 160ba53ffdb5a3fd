package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	billingUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/billing"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/middleware"
)

// PaymentHandler handles billing and subscription HTTP requests
type PaymentHandler struct {
	billingService *billingUseCase.Service
	logger         coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(billingService *billingUseCase.Service, logger coreport.Logger) *PaymentHandler {
	return &PaymentHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// Products handles the GET /payments/products endpoint
func (h *PaymentHandler) Products(c *gin.Context) {
	catalog, err := h.billingService.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// Checkout handles the POST /payments/checkout endpoint
func (h *PaymentHandler) Checkout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.billingService.CreateCheckout(c.Request.Context(), user, billingUseCase.CheckoutRequest{
		PriceID:    req.PriceID,
		Mode:       req.Mode,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// Portal handles the POST /payments/portal endpoint
func (h *PaymentHandler) Portal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	var req dto.PortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	url, err := h.billingService.CreatePortal(c.Request.Context(), user, req.ReturnURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PortalResponse{URL: url})
}

// CancelSubscription handles the POST /payments/subscription/cancel endpoint
func (h *PaymentHandler) CancelSubscription(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	if err := h.billingService.CancelSubscription(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Subscription will be cancelled at the end of the billing period",
	})
}

// ReactivateSubscription handles the POST /payments/subscription/reactivate endpoint
func (h *PaymentHandler) ReactivateSubscription(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domainerr.ErrInvalidToken)
		return
	}

	if err := h.billingService.ReactivateSubscription(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Subscription reactivated"})
}
