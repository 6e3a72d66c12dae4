package auth

// Context keys set by the admin-session middleware.
const (
	// ContextSessionID is the key for the session ID (jti) in gin context.
	ContextSessionID = "session_id"
	// ContextUsername is the key for the admin username in gin context.
	ContextUsername = "username"
)
