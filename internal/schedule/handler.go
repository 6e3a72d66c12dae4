package schedule

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/internal/models"
	"github.com/aarogya-webinar/backend/pkg/response"
)

// Store is the schedule persistence interface consumed by the handler.
type Store interface {
	Get(ctx context.Context) (*models.WebinarSchedule, error)
	Upsert(ctx context.Context, w *models.WebinarSchedule) error
}

// UpsertRequest is the body for POST /api/webinars. Price is untyped so a
// missing or non-numeric value falls back to the default instead of failing
// to bind.
type UpsertRequest struct {
	Date     string      `json:"date" binding:"required"`
	Day      string      `json:"day" binding:"required"`
	Time     string      `json:"time" binding:"required"`
	Language string      `json:"language" binding:"required"`
	Price    interface{} `json:"price"`
}

// Handler handles webinar schedule HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a schedule handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Get handles GET /api/webinars. Returns null data before the first admin
// save; clients render a placeholder for absent fields.
func (h *Handler) Get(c *gin.Context) {
	w, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch schedule failed", zap.Error(err))
		response.Internal(c, "Error fetching webinar details")
		return
	}
	response.OK(c, w)
}

// Upsert handles POST /api/webinars (admin only). Overwrites the single
// schedule record, creating it on first save.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	w := &models.WebinarSchedule{
		Date:     req.Date,
		Day:      req.Day,
		Time:     req.Time,
		Language: req.Language,
		Price:    priceOrDefault(req.Price),
	}
	if err := h.store.Upsert(c.Request.Context(), w); err != nil {
		h.logger.Error("save schedule failed", zap.Error(err))
		response.Internal(c, "Failed to save webinar")
		return
	}
	response.OK(c, w)
}

// priceOrDefault coerces a JSON price value to a positive integer, falling
// back to the default when missing or non-numeric.
func priceOrDefault(v interface{}) int {
	switch p := v.(type) {
	case float64:
		if p > 0 {
			return int(p)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil && n > 0 {
			return n
		}
	}
	return models.DefaultWebinarPrice
}
