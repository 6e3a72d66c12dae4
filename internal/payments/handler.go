package payments

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/pkg/response"
)

// OrderCreator creates payment orders upstream.
type OrderCreator interface {
	CreateOrder(amountMajorUnits int, currency string) (map[string]interface{}, error)
}

// CreateOrderRequest is the body for POST /api/create-order.
type CreateOrderRequest struct {
	Amount   int    `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
}

// Handler handles payment order HTTP endpoints.
type Handler struct {
	gateway         OrderCreator
	defaultCurrency string
	logger          *zap.Logger
}

// NewHandler creates a payments handler. defaultCurrency is applied when the
// request leaves currency blank; empty means the gateway's own default.
func NewHandler(gateway OrderCreator, defaultCurrency string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gateway, defaultCurrency: defaultCurrency, logger: logger}
}

// CreateOrder handles POST /api/create-order. The client opens Razorpay
// checkout with the returned order id.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = h.defaultCurrency
	}
	order, err := h.gateway.CreateOrder(req.Amount, currency)
	if err != nil {
		response.Internal(c, "failed to create payment order")
		return
	}
	response.OK(c, order)
}
