package response

// Коды ошибок; Details заполняется копией в обработчике
var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrValidation = ErrorResponse{
		Status:  "error",
		Error:   "validation_failed",
		Details: "Some fields are invalid",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrForbidden = ErrorResponse{
		Status: "error",
		Error:  "forbidden",
	}

	ErrNotFound = ErrorResponse{
		Status:  "error",
		Error:   "not_found",
		Details: "The item no longer exists",
	}

	ErrConflict = ErrorResponse{
		Status: "error",
		Error:  "conflict",
	}

	ErrUpstream = ErrorResponse{
		Status:  "error",
		Error:   "upstream_unavailable",
		Details: "The club API could not be reached",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
