package middlewares

const (
	CtxRequestID = "request_id"

	ctxUserIDKey   = "auth.userID"
	ctxUsernameKey = "auth.username"
	ctxEmailKey    = "auth.email"
)
