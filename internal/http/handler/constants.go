package handler

const (
	jsonKeyError         = "error"
	jsonKeyMessage       = "message"
	jsonKeySuccess       = "success"
	jsonKeyAuthenticated = "authenticated"
	jsonKeyToken         = "token"
	jsonKeyAllowed       = "allowed"

	paramID = "id"

	queryApplication = "application"
	queryModule      = "module"
	queryAction      = "action"

	maxGuardRequests = 50
)

const (
	msgAccessTokenRequired     = "Access token required"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "Invalid request body"
	msgAuthenticationRequired  = "Authentication required"
	msgPermissionDenied        = "You do not have permission to access this resource"
	msgInvalidPermission       = "application, module and action are required; action must be one of view, create, edit, delete"
	msgGuardRequestsRequired   = "at least one permission request is required"
	msgTooManyGuardRequests    = "too many permission requests"
	msgIDRequired              = "id is required"
	msgGrantsReloadFailed      = "Failed to reload grants"
)
