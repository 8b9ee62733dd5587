package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ValidationErrorCode         = 1
	NotFoundErrorCode           = 404
	TooManyRequestsErrorCode    = 429
	InternalServerErrorCode     = 500
	ServiceUnavailableErrorCode = 503
)
