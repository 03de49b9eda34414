package guard

const (
	errUnknownStateFmt     = "State(%d)"
	errUnknownStateNameFmt = "unknown guard state %q"

	msgAuthenticationRequired = "Authentication required"
	msgPermissionDenied       = "You do not have permission to access this resource"

	jsonKeyError    = "error"
	jsonKeyRedirect = "redirect"
)
