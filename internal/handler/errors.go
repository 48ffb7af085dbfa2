package handler

// Machine-readable codes carried in ErrorResponse.Code.
const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeValidationFailed   = "validation_failed"
	codeInvalidCredentials = "invalid_credentials"
	codeInvalidToken       = "invalid_token"
	codeLoginRequired      = "login_required"
	codeAccessDenied       = "access_denied"
	codeEventFull          = "event_full"
	codeForbidden          = "forbidden"
	codeCSRFFailed         = "csrf_failed"
	codeInternalError      = "internal_error"
	codeUnavailable        = "unavailable"
)
