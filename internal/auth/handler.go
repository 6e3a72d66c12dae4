package auth

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/config"
	"github.com/aarogya-webinar/backend/pkg/response"
	"github.com/aarogya-webinar/backend/pkg/utils"
)

// LoginRequest is the body for POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login response with the session token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Handler handles admin auth HTTP endpoints. The credential pair comes from
// process configuration; there are no per-user accounts.
type Handler struct {
	admin    config.AdminConfig
	tokens   *TokenService
	sessions SessionStore
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(admin config.AdminConfig, tokens *TokenService, sessions SessionStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{admin: admin, tokens: tokens, sessions: sessions, logger: logger}
}

// Login handles POST /api/admin/login. Issues a short-lived session token and
// registers the session so it can be revoked.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if !h.credentialsMatch(req.Username, req.Password) {
		response.Unauthorized(c, "Invalid Credentials")
		return
	}

	token, sessionID, expiresAt, err := h.tokens.Generate(req.Username)
	if err != nil {
		h.logger.Error("generate session token failed", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}
	if err := h.sessions.Save(c.Request.Context(), sessionID, h.tokens.TTL()); err != nil {
		h.logger.Error("save session failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}

	response.OK(c, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout handles POST /api/admin/logout. Revokes the current session.
func (h *Handler) Logout(c *gin.Context) {
	sessionID := c.GetString(ContextSessionID)
	if sessionID == "" {
		response.Unauthorized(c, "missing session context")
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("delete session failed", zap.Error(err))
		response.Internal(c, "failed to end session")
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

func (h *Handler) credentialsMatch(username, password string) bool {
	if h.admin.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username)) == 1
	var passOK bool
	if h.admin.PasswordHash != "" {
		passOK = utils.CheckPassword(password, h.admin.PasswordHash)
	} else {
		passOK = h.admin.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(h.admin.Password)) == 1
	}
	return userOK && passOK
}
