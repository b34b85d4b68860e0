package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrStaffAccessOnly  ErrCode = "STAFF_ACCESS_ONLY"
	ErrNotAuthor        ErrCode = "NOT_AUTHOR"
	ErrSelfAction       ErrCode = "SELF_ACTION"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidReference ErrCode = "INVALID_REFERENCE"
	ErrClassMismatch    ErrCode = "CLASS_MISMATCH"
	ErrScoreOutOfRange  ErrCode = "SCORE_OUT_OF_RANGE"
	ErrInvalidStatus    ErrCode = "INVALID_STATUS_TRANSITION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrConflict          ErrCode = "CONFLICT"
	ErrAssignmentNotOpen ErrCode = "ASSIGNMENT_NOT_OPEN"
	ErrDeadlinePassed    ErrCode = "DEADLINE_PASSED"

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
		return "Incorrect email or password."
	case ErrAccountDisabled:
		return "This account is inactive or has no console access."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrStaffAccessOnly:
		return "This resource is restricted to staff accounts."
	case ErrNotAuthor:
		return "You can only modify records you authored."
	case ErrSelfAction:
		return "You cannot do this to your own account."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidReference:
		return "A referenced record does not exist."
	case ErrClassMismatch:
		return "The records involved belong to different classes."
	case ErrScoreOutOfRange:
		return "The score must be between zero and the assignment's marks."
	case ErrInvalidStatus:
		return "This status change is not allowed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrAssignmentNotOpen:
		return "The assignment is not open for submissions."
	case ErrDeadlinePassed:
		return "The assignment deadline has passed."

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
