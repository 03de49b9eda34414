package auth

import "time"

const (
	ContextKeyUserID = "user_id"

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	CookiePath         = "/"
	CookieMaxAge       = 2592000

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	defaultCacheTTL = 5 * time.Minute
)

const (
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgTokenMissingUser        = "token has no user_id"
	msgTokenMissingExpiry      = "token has no expiry"
	msgMissingToken            = "missing access token"
	msgSessionResolveFailed    = "session resolution failed"
)
