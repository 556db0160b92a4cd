package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrUserAccessOnly  ErrCode = "USER_ACCESS_ONLY"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrPoolEmpty         ErrCode = "QUESTION_POOL_EMPTY"
	ErrCardMissing       ErrCode = "CARD_NOT_CONFIGURED"
	ErrSessionNotFound   ErrCode = "SESSION_NOT_FOUND"
	ErrSessionFinished   ErrCode = "SESSION_ALREADY_COMPLETED"
	ErrMockLocked        ErrCode = "MOCK_TEST_LOCKED"
	ErrResultNotSaved    ErrCode = "RESULT_NOT_SAVED"
	ErrInvalidKind       ErrCode = "INVALID_ASSESSMENT_KIND"
	ErrInvalidTransition ErrCode = "INVALID_SESSION_TRANSITION"

	// ─── AI ────────────────────────────────────────────────────────────
	ErrAIUnavailable ErrCode = "AI_UNAVAILABLE"
	ErrAIGeneration  ErrCode = "AI_GENERATION_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrUserAccessOnly:
		return "This resource is restricted to regular users."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "Resource cannot be deleted because other data still references it."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrPoolEmpty:
		return "No questions are available for this language yet."
	case ErrCardMissing:
		return "No card is configured for this language."
	case ErrSessionNotFound:
		return "No active assessment session for this language."
	case ErrSessionFinished:
		return "This assessment session is already completed."
	case ErrMockLocked:
		return "Mock test already passed with a perfect score. Retakes are disabled."
	case ErrResultNotSaved:
		return "Your score was computed but could not be saved. Please check your history later."
	case ErrInvalidKind:
		return "Assessment kind must be quiz or mock."
	case ErrInvalidTransition:
		return "This action is not allowed in the current session state."

	// ─── AI ────────────────────────────────────────────────────────────
	case ErrAIUnavailable:
		return "AI features are not configured on this server."
	case ErrAIGeneration:
		return "AI content generation failed. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
