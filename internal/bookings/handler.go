package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/internal/models"
	"github.com/aarogya-webinar/backend/pkg/queue"
	"github.com/aarogya-webinar/backend/pkg/response"
)

// Store is the booking persistence interface consumed by the handler.
type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (b *models.Booking, changed bool, err error)
}

// SignatureVerifier checks a checkout callback signature.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// Broadcaster pushes booking events to the live admin feed.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// Confirmer enqueues booking confirmation email jobs.
type Confirmer interface {
	EnqueueConfirmation(ctx context.Context, payload queue.ConfirmationPayload) error
}

// CreateRequest is the body for POST /api/bookings. Field names are the
// public wire contract used by the booking form.
type CreateRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	SessionType     string `json:"sessionType" binding:"required"`
	DateTime        string `json:"dateTime" binding:"required"` // RFC3339
	RazorpayOrderID string `json:"razorpay_order_id"`
}

// VerifyRequest is the body for POST /api/verify-payment, as Razorpay
// checkout hands it back to the client.
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	BookingID         string `json:"bookingId" binding:"required"`
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	store        Store
	verifier     SignatureVerifier
	hub          Broadcaster
	confirmer    Confirmer
	whatsappLink string
	logger       *zap.Logger
}

// NewHandler creates a booking handler. hub and confirmer may be nil.
func NewHandler(store Store, verifier SignatureVerifier, hub Broadcaster, confirmer Confirmer, whatsappLink string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:        store,
		verifier:     verifier,
		hub:          hub,
		confirmer:    confirmer,
		whatsappLink: whatsappLink,
		logger:       logger,
	}
}

// Create handles POST /api/bookings. Stores a pending booking; the WhatsApp
// group link is copied from configuration at creation time.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		response.BadRequest(c, "invalid dateTime")
		return
	}

	b := &models.Booking{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		SessionType:       req.SessionType,
		ScheduledAt:       scheduledAt,
		WhatsAppGroupLink: h.whatsappLink,
		RazorpayOrderID:   req.RazorpayOrderID,
	}
	if err := h.store.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create booking failed", zap.Error(err))
		response.Internal(c, "failed to create booking")
		return
	}
	if h.hub != nil {
		h.hub.Broadcast("booking_created", b)
	}
	response.Created(c, b)
}

// List handles GET /api/bookings (admin only), ordered by scheduled date.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list bookings failed", zap.Error(err))
		response.Internal(c, "failed to list bookings")
		return
	}
	if list == nil {
		list = []models.Booking{}
	}
	response.OK(c, list)
}

// MarkPaid handles PUT /api/bookings/:id/pay (admin only). Trusted
// confirmation for hosted-payment-link bookings, which return no signature;
// it carries no cryptographic proof, hence the admin gate.
func (h *Handler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	b, changed, err := h.store.MarkPaid(c.Request.Context(), id, "")
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "booking not found")
		return
	}
	if err != nil {
		h.logger.Error("mark booking paid failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to update booking")
		return
	}
	if changed {
		h.confirmed(c.Request.Context(), b)
	}
	response.OK(c, b)
}

// VerifyPayment handles POST /api/verify-payment. The only confirmation path
// carrying proof: the signature must be the gateway's HMAC over the order and
// payment ids. On mismatch the booking stays unpaid and the client may
// resubmit.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	id, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	b, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "booking not found")
		return
	}
	if err != nil {
		h.logger.Error("load booking failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to load booking")
		return
	}
	if b.RazorpayOrderID != "" && b.RazorpayOrderID != req.RazorpayOrderID {
		response.BadRequest(c, "order does not match booking")
		return
	}
	if !h.verifier.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		h.logger.Warn("payment signature mismatch",
			zap.String("booking_id", id.String()),
			zap.String("order_id", req.RazorpayOrderID))
		response.BadRequest(c, "payment verification failed")
		return
	}

	b, changed, err := h.store.MarkPaid(c.Request.Context(), id, req.RazorpayPaymentID)
	if err != nil {
		h.logger.Error("mark booking paid failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to update booking")
		return
	}
	if changed {
		h.confirmed(c.Request.Context(), b)
	}
	response.OK(c, b)
}

// confirmed fans a freshly paid booking out to the admin feed and the
// confirmation email queue.
func (h *Handler) confirmed(ctx context.Context, b *models.Booking) {
	if h.hub != nil {
		h.hub.Broadcast("booking_paid", b)
	}
	if h.confirmer != nil {
		err := h.confirmer.EnqueueConfirmation(ctx, queue.ConfirmationPayload{
			BookingID:         b.ID,
			RecipientEmail:    b.Email,
			RecipientName:     b.Name,
			SessionType:       b.SessionType,
			ScheduledAt:       b.ScheduledAt,
			WhatsAppGroupLink: b.WhatsAppGroupLink,
		})
		if err != nil {
			h.logger.Error("enqueue confirmation failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
		}
	}
}
