package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidCategory ErrCode = "INVALID_CATEGORY"
	ErrInvalidMonth    ErrCode = "INVALID_MONTH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam generation ───────────────────────────────────────────────
	ErrCountMismatch    ErrCode = "COUNT_MISMATCH"
	ErrMissingSubject   ErrCode = "MISSING_SUBJECT"
	ErrZeroTotal        ErrCode = "ZERO_TOTAL"
	ErrInsufficientBank ErrCode = "INSUFFICIENT_BANK"
	ErrInvalidStep      ErrCode = "INVALID_STEP"
	ErrInvalidSchedule  ErrCode = "INVALID_SCHEDULE"
	ErrWizardNotFound   ErrCode = "WIZARD_NOT_FOUND"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidCategory:
		return "Category must be one of all, live, upcoming or completed."
	case ErrInvalidMonth:
		return "Month must be formatted as YYYY-MM."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Exam generation ───────────────────────────────────────────────
	case ErrCountMismatch:
		return "The difficulty counts do not add up to the total number of questions."
	case ErrMissingSubject:
		return "Please select a subject."
	case ErrZeroTotal:
		return "Total questions must be greater than zero."
	case ErrInsufficientBank:
		return "The question bank does not have enough questions for the requested mix."
	case ErrInvalidStep:
		return "This action is not available at the current wizard step."
	case ErrInvalidSchedule:
		return "The exam schedule is incomplete or invalid."
	case ErrWizardNotFound:
		return "Wizard session not found or expired."

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstreamUnavailable:
		return "The exam backend is unavailable. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
