package testimonials

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/internal/models"
	"github.com/aarogya-webinar/backend/pkg/response"
	"github.com/aarogya-webinar/backend/pkg/storage"
)

// Store is the testimonial persistence interface consumed by the handler.
type Store interface {
	List(ctx context.Context, category models.TestimonialCategory) ([]models.Testimonial, error)
	Create(ctx context.Context, t *models.Testimonial) error
	Update(ctx context.Context, category models.TestimonialCategory, id uuid.UUID, name, city, review string, photoURL *string) (*models.Testimonial, error)
	Delete(ctx context.Context, category models.TestimonialCategory, id uuid.UUID) (photoURL *string, err error)
}

// PhotoStore stores photos and resolves them to fetchable URLs.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// FormRequest is the multipart body for create/update; the optional photo
// file rides alongside under the "photo" field.
type FormRequest struct {
	Name   string `form:"name" json:"name" binding:"required"`
	City   string `form:"city" json:"city"`
	Review string `form:"review" json:"review"`
}

// Handler handles testimonial HTTP endpoints for both collections.
type Handler struct {
	store  Store
	photos PhotoStore
	logger *zap.Logger
}

// NewHandler creates a testimonial handler. photos may be nil when S3 is not
// configured; photo-less submissions still work.
func NewHandler(store Store, photos PhotoStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, photos: photos, logger: logger}
}

// List handles GET for a collection, newest first.
func (h *Handler) List(category models.TestimonialCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.store.List(c.Request.Context(), category)
		if err != nil {
			h.logger.Error("list testimonials failed", zap.Error(err), zap.String("category", string(category)))
			response.Internal(c, "Error fetching testimonials")
			return
		}
		if list == nil {
			list = []models.Testimonial{}
		}
		response.OK(c, list)
	}
}

// Create handles POST for a collection. A photo is optional; when supplied it
// is stored and its resolved URL persisted.
func (h *Handler) Create(category models.TestimonialCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FormRequest
		if err := c.ShouldBind(&req); err != nil {
			response.BadRequest(c, "invalid request: "+err.Error())
			return
		}

		photoURL, err := h.storePhoto(c, category)
		if err != nil {
			return // response already written
		}

		t := &models.Testimonial{
			Category: category,
			Name:     req.Name,
			City:     req.City,
			Review:   req.Review,
			PhotoURL: photoURL,
		}
		if err := h.store.Create(c.Request.Context(), t); err != nil {
			h.logger.Error("create testimonial failed", zap.Error(err), zap.String("category", string(category)))
			response.Internal(c, "Error saving testimonial")
			return
		}
		response.Created(c, t)
	}
}

// Update handles PUT /:id for a collection (admin only). Full replace of
// name/city/review; photo replaced only when a new one is supplied.
func (h *Handler) Update(category models.TestimonialCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid testimonial id")
			return
		}
		var req FormRequest
		if err := c.ShouldBind(&req); err != nil {
			response.BadRequest(c, "invalid request: "+err.Error())
			return
		}

		photoURL, err := h.storePhoto(c, category)
		if err != nil {
			return
		}

		t, err := h.store.Update(c.Request.Context(), category, id, req.Name, req.City, req.Review, photoURL)
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "testimonial not found")
			return
		}
		if err != nil {
			h.logger.Error("update testimonial failed", zap.Error(err), zap.String("id", id.String()))
			response.Internal(c, "Error updating testimonial")
			return
		}
		response.OK(c, t)
	}
}

// Delete handles DELETE /:id for a collection (admin only). The stored photo
// is removed best-effort; a failed object delete does not fail the request.
func (h *Handler) Delete(category models.TestimonialCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid testimonial id")
			return
		}
		photoURL, err := h.store.Delete(c.Request.Context(), category, id)
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "testimonial not found")
			return
		}
		if err != nil {
			h.logger.Error("delete testimonial failed", zap.Error(err), zap.String("id", id.String()))
			response.Internal(c, "Error deleting testimonial")
			return
		}
		if photoURL != nil && h.photos != nil {
			if key := storage.KeyFromURL(*photoURL); key != "" {
				if err := h.photos.DeleteObject(c.Request.Context(), key); err != nil {
					h.logger.Warn("delete testimonial photo failed", zap.Error(err), zap.String("key", key))
				}
			}
		}
		response.OK(c, gin.H{"deleted": true})
	}
}

// storePhoto uploads the optional "photo" form file and returns its URL, or
// nil when no photo was supplied. Writes the error response itself on failure.
func (h *Handler) storePhoto(c *gin.Context, category models.TestimonialCategory) (*string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return nil, nil // no photo is valid
	}
	if file.Size > storage.MaxPhotoSize {
		response.BadRequest(c, "photo exceeds 10MB limit")
		return nil, errPhotoRejected
	}
	if !storage.ValidatePhotoType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid photo type: only jpg, png and webp allowed")
		return nil, errPhotoRejected
	}
	if h.photos == nil {
		response.Internal(c, "photo storage not configured")
		return nil, errPhotoRejected
	}

	rc, err := h.openUpload(file)
	if err != nil {
		h.logger.Error("open uploaded photo failed", zap.Error(err))
		response.Internal(c, "failed to read photo")
		return nil, errPhotoRejected
	}
	defer rc.Close()

	key := storage.PhotoKey(string(category), file.Filename)
	url, err := h.photos.UploadPhoto(c.Request.Context(), key, storage.ContentTypeForFilename(file.Filename), rc, file.Size)
	if err != nil {
		h.logger.Error("photo upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload photo")
		return nil, errPhotoRejected
	}
	return &url, nil
}

func (h *Handler) openUpload(file *multipart.FileHeader) (multipart.File, error) {
	return file.Open()
}

var errPhotoRejected = errors.New("photo rejected")
