package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/shared/server/middleware"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing/orders", h.createOrder)
	rg.POST("/billing/verify", h.verify)
	rg.GET("/billing/subscription", h.subscription)
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	payment, err := h.Svc.CreateOrder(c.Request.Context(), middleware.UserIDFromContext(c), req.Amount, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrActiveSubscription):
			respond.Error(c, http.StatusBadRequest, "duplicate", "user already has an active subscription", nil)
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusBadRequest, "duplicate", "an order already exists for this month", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create order", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"order": payment})
}

type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	payment, err := h.Svc.VerifyPayment(
		c.Request.Context(),
		middleware.UserIDFromContext(c),
		req.OrderID,
		req.PaymentID,
		req.Signature,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, ErrAlreadyPaid):
			respond.Error(c, http.StatusBadRequest, "duplicate", "payment already verified", nil)
		case errors.Is(err, ErrInvalidSignature):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid payment signature", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify payment", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "payment verified", "payment": payment})
}

func (h *Handler) subscription(c *gin.Context) {
	info, err := h.Svc.CheckSubscription(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check subscription", nil)
		return
	}
	respond.JSON(c, http.StatusOK, info)
}
