package handlers

const (
	SessionCookieName = "session_id"

	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrValidationFailed    = "Validation failed"
	ErrSetupRequired       = "The database is not set up for this application"

	// maxBodyBytes bounds decoded JSON request bodies
	maxBodyBytes = 1 << 20
)
