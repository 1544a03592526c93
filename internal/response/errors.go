package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden             ErrCode = "FORBIDDEN"
	ErrParticipantAccessOnly ErrCode = "PARTICIPANT_ACCESS_ONLY"
	ErrAdminAccessOnly       ErrCode = "ADMIN_ACCESS_ONLY"
	ErrParticipantInactive   ErrCode = "PARTICIPANT_INACTIVE"
	ErrAlreadyInSession      ErrCode = "ALREADY_IN_SESSION"
	ErrNotEligibleForRound   ErrCode = "NOT_ELIGIBLE_FOR_ROUND"
	ErrRoundNotActive        ErrCode = "ROUND_NOT_ACTIVE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrActionForbidden  ErrCode = "ACTION_FORBIDDEN"

	// ─── Contest-specific ──────────────────────────────────────────────
	ErrNoActiveRound       ErrCode = "NO_ACTIVE_ROUND"
	ErrRoundIsActive       ErrCode = "ROUND_IS_ACTIVE"
	ErrRoundHasHistory     ErrCode = "ROUND_HAS_HISTORY"
	ErrAlreadyValidated    ErrCode = "ALREADY_VALIDATED"
	ErrEmailRegistered     ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrAlreadyFirstRound   ErrCode = "ALREADY_FIRST_ROUND"
	ErrWeightNotConfigured ErrCode = "QUESTION_WEIGHT_NOT_CONFIGURED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal  ErrCode = "INTERNAL_ERROR"
	ErrTransient ErrCode = "STORE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrParticipantAccessOnly:
		return "This resource is restricted to participants."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrParticipantInactive:
		return "Your account is not active. Please contact an administrator."
	case ErrAlreadyInSession:
		return "A test session is already in progress for this account."
	case ErrNotEligibleForRound:
		return "You are not eligible for the currently active round."
	case ErrRoundNotActive:
		return "The submitted round is no longer active."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "The data cannot be deleted because it is still referenced."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Contest-specific ──────────────────────────────────────────────
	case ErrNoActiveRound:
		return "No round is currently active. Please wait for an administrator."
	case ErrRoundIsActive:
		return "An active round cannot be deleted. Deactivate it first."
	case ErrRoundHasHistory:
		return "A round with recorded sessions or submissions cannot be deleted."
	case ErrAlreadyValidated:
		return "This submission has already been validated."
	case ErrEmailRegistered:
		return "This email address is already registered."
	case ErrAlreadyFirstRound:
		return "The participant is already in the first round."
	case ErrWeightNotConfigured:
		return "The question weight setting has not been configured."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	case ErrTransient:
		return "The data store is temporarily unavailable. It is safe to retry."
	default:
		return "An unexpected error occurred."
	}
}
