package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogya-webinar/backend/internal/auth"
)

type memSessionStore struct {
	live map[string]bool
}

func (m *memSessionStore) Save(ctx context.Context, sessionID string, ttl time.Duration) error {
	m.live[sessionID] = true
	return nil
}

func (m *memSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	return m.live[sessionID], nil
}

func (m *memSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.live, sessionID)
	return nil
}

func adminTestRouter(tokens *auth.TokenService, sessions auth.SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAdmin(tokens, sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(auth.ContextUsername)})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 30)
	sessions := &memSessionStore{live: map[string]bool{}}
	r := adminTestRouter(tokens, sessions)

	token, sessionID, _, err := tokens.Generate("admin")
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), sessionID, time.Minute))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestRequireAdminRejectsMissingOrMalformedHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 30)
	sessions := &memSessionStore{live: map[string]bool{}}
	r := adminTestRouter(tokens, sessions)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not-a-token").Code)
}

func TestRequireAdminRejectsRevokedSession(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 30)
	sessions := &memSessionStore{live: map[string]bool{}}
	r := adminTestRouter(tokens, sessions)

	token, sessionID, _, err := tokens.Generate("admin")
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), sessionID, time.Minute))
	require.NoError(t, sessions.Delete(context.Background(), sessionID))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code,
		"a signed token is not enough once its session is gone")
}

func TestRequireAdminRejectsForeignToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 30)
	sessions := &memSessionStore{live: map[string]bool{}}
	r := adminTestRouter(tokens, sessions)

	foreign := auth.NewTokenService("other-secret", 30)
	token, sessionID, _, err := foreign.Generate("admin")
	require.NoError(t, err)
	sessions.live[sessionID] = true

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}
