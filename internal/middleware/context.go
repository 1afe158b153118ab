package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)

// CookieAccessToken names the session cookie holding "Bearer <jwt>".
const CookieAccessToken = "access_token"
