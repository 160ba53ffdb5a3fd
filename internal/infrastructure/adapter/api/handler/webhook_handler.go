package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	webhookUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/webhook"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
)

// signatureHeader is the header Stripe signs its deliveries with
const signatureHeader = "Stripe-Signature"

// maxWebhookBodyBytes caps webhook payload reads
const maxWebhookBodyBytes = 1 << 20

// WebhookHandler handles inbound Stripe webhook deliveries
type WebhookHandler struct {
	processor *webhookUseCase.Processor
	logger    coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(processor *webhookUseCase.Processor, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleStripeWebhook handles the POST /stripe-webhook endpoint.
//
// Status codes drive the sender's retry machinery: 400 for signature
// failures (retrying cannot help), 200 for handled, duplicate and unknown
// events, and 500 for handler or dedup failures so the event is redelivered.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Unable to read request body",
		})
		return
	}

	result, err := h.processor.Process(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, domainerr.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Webhook signature verification failed",
			})
			return
		}

		// A non-2xx response makes Stripe redeliver the event.
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Event processing failed, delivery will be retried",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":  true,
		"duplicate": result.Duplicate,
		"handled":   result.Handled,
	})
}
