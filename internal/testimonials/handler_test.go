package testimonials

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogya-webinar/backend/internal/models"
	"github.com/aarogya-webinar/backend/pkg/response"
)

type fakeStore struct {
	items   map[uuid.UUID]models.Testimonial
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uuid.UUID]models.Testimonial)}
}

func (f *fakeStore) List(ctx context.Context, category models.TestimonialCategory) ([]models.Testimonial, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Testimonial
	for _, t := range f.items {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, t *models.Testimonial) error {
	t.ID = uuid.New()
	f.items[t.ID] = *t
	return nil
}

func (f *fakeStore) Update(ctx context.Context, category models.TestimonialCategory, id uuid.UUID, name, city, review string, photoURL *string) (*models.Testimonial, error) {
	existing, ok := f.items[id]
	if !ok || existing.Category != category {
		return nil, ErrNotFound
	}
	existing.Name, existing.City, existing.Review = name, city, review
	if photoURL != nil {
		existing.PhotoURL = photoURL
	}
	f.items[id] = existing
	return &existing, nil
}

func (f *fakeStore) Delete(ctx context.Context, category models.TestimonialCategory, id uuid.UUID) (*string, error) {
	existing, ok := f.items[id]
	if !ok || existing.Category != category {
		return nil, ErrNotFound
	}
	delete(f.items, id)
	return existing.PhotoURL, nil
}

type fakePhotoStore struct {
	gotKey         string
	gotContentType string
	deletedKeys    []string
	err            error
}

func (f *fakePhotoStore) UploadPhoto(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	f.gotKey = key
	f.gotContentType = contentType
	if f.err != nil {
		return "", f.err
	}
	return "https://photos.example.com/" + key, nil
}

func (f *fakePhotoStore) DeleteObject(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/testimonials", h.List(models.CategoryGeneral))
	r.POST("/api/testimonials", h.Create(models.CategoryGeneral))
	r.PUT("/api/testimonials/:id", h.Update(models.CategoryGeneral))
	r.DELETE("/api/testimonials/:id", h.Delete(models.CategoryGeneral))
	r.GET("/api/pcos", h.List(models.CategoryPCOS))
	r.POST("/api/pcos", h.Create(models.CategoryPCOS))
	return r
}

func multipartBody(t *testing.T, fields map[string]string, photoName, photoContentType string, photo []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photoName != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="photo"; filename="`+photoName+`"`)
		hdr.Set("Content-Type", photoContentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateWithoutPhoto(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, nil, nil)
	r := newRouter(h)

	form := url.Values{"name": {"Asha"}, "city": {"Pune"}, "review": {"Very helpful session"}}
	req := httptest.NewRequest(http.MethodPost, "/api/testimonials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    models.Testimonial `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Asha", body.Data.Name)
	assert.Nil(t, body.Data.PhotoURL)
	assert.Equal(t, models.CategoryGeneral, body.Data.Category)
}

func TestCreateWithPhoto(t *testing.T) {
	store := newFakeStore()
	photos := &fakePhotoStore{}
	h := NewHandler(store, photos, nil)
	r := newRouter(h)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Meera", "city": "Jaipur", "review": "Changed my routine"},
		"selfie.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff, 0xe0})
	req := httptest.NewRequest(http.MethodPost, "/api/pcos", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasPrefix(photos.gotKey, "pcos_testimonials/"))
	assert.True(t, strings.HasSuffix(photos.gotKey, ".jpg"))
	assert.Equal(t, "image/jpeg", photos.gotContentType)

	var resp struct {
		Data models.Testimonial `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.PhotoURL)
	assert.Equal(t, "https://photos.example.com/"+photos.gotKey, *resp.Data.PhotoURL)
	assert.Equal(t, models.CategoryPCOS, resp.Data.Category)
}

func TestCreateRejectsBadPhotoType(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, &fakePhotoStore{}, nil)
	r := newRouter(h)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Meera"},
		"notes.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/testimonials", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.items, "rejected photo must not persist the testimonial")
}

func TestCreateRequiresName(t *testing.T) {
	h := NewHandler(newFakeStore(), nil, nil)
	r := newRouter(h)

	form := url.Values{"city": {"Pune"}}
	req := httptest.NewRequest(http.MethodPost, "/api/testimonials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEmptyCollection(t *testing.T) {
	h := NewHandler(newFakeStore(), nil, nil)
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/testimonials", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                 `json:"success"`
		Data    []models.Testimonial `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
	assert.Len(t, body.Data, 0)
}

func TestCollectionsAreSeparate(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, nil, nil)
	r := newRouter(h)

	form := url.Values{"name": {"Asha"}, "review": {"General feedback"}}
	req := httptest.NewRequest(http.MethodPost, "/api/testimonials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcos", nil))
	var body struct {
		Data []models.Testimonial `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 0, "general entries must not leak into the pcos collection")
}

func TestUpdateNotFound(t *testing.T) {
	h := NewHandler(newFakeStore(), nil, nil)
	r := newRouter(h)

	form := url.Values{"name": {"Asha"}}
	req := httptest.NewRequest(http.MethodPut, "/api/testimonials/"+uuid.NewString(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateKeepsPhotoWhenNoneSupplied(t *testing.T) {
	store := newFakeStore()
	existingURL := "https://photos.example.com/general_testimonials/old.jpg"
	id := uuid.New()
	store.items[id] = models.Testimonial{
		ID: id, Category: models.CategoryGeneral, Name: "Asha", PhotoURL: &existingURL,
	}
	h := NewHandler(store, nil, nil)
	r := newRouter(h)

	form := url.Values{"name": {"Asha S"}, "review": {"Updated review"}}
	req := httptest.NewRequest(http.MethodPut, "/api/testimonials/"+id.String(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	got := store.items[id]
	assert.Equal(t, "Asha S", got.Name)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, existingURL, *got.PhotoURL)
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.items[id] = models.Testimonial{ID: id, Category: models.CategoryGeneral, Name: "Asha"}
	h := NewHandler(store, nil, nil)
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/testimonials/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.items)

	// second delete of the same id
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/testimonials/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRemovesStoredPhoto(t *testing.T) {
	store := newFakeStore()
	photos := &fakePhotoStore{}
	photoURL := "https://photos.example.com/general_testimonials/abc.jpg"
	id := uuid.New()
	store.items[id] = models.Testimonial{ID: id, Category: models.CategoryGeneral, Name: "Asha", PhotoURL: &photoURL}
	h := NewHandler(store, photos, nil)
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/testimonials/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"general_testimonials/abc.jpg"}, photos.deletedKeys)
}

func TestDeleteMalformedID(t *testing.T) {
	h := NewHandler(newFakeStore(), nil, nil)
	r := newRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/testimonials/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
}
