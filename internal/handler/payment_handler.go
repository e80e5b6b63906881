package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/classroom-service/internal/ecpay"
	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"github.com/psds-microservice/classroom-service/internal/service"
)

const plainText = "text/plain; charset=utf-8"

// PaymentHandler handles ECPay checkout and the gateway callback.
type PaymentHandler struct {
	svc service.PaymentServicer
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(svc service.PaymentServicer) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Checkout godoc
// POST /api/payments/ecpay/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidAmount) || errors.Is(err, errs.ErrItemRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback godoc
// POST /api/payments/ecpay/callback
// The gateway expects HTTP 200 with "1|OK" or "0|<reason>" in the body.
func (h *PaymentHandler) Callback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.Data(http.StatusOK, plainText, []byte(ecpay.AckFailure("invalid form")))
		return
	}
	ack := h.svc.HandleCallback(c.Request.Context(), ecpay.ParamsFromForm(c.Request.PostForm))
	c.Data(http.StatusOK, plainText, []byte(ack))
}

// GetOrder godoc
// GET /api/payments/ecpay/orders/:trade_no
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	tradeNo := c.Param("trade_no")
	if tradeNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trade_no required"})
		return
	}
	n, err := h.svc.Notification(c.Request.Context(), tradeNo)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payment"})
		return
	}
	c.JSON(http.StatusOK, n)
}
