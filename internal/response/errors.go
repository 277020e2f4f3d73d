package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "LOGIN_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz session ──────────────────────────────────────────────────
	ErrSubjectNotFound  ErrCode = "SUBJECT_NOT_FOUND"
	ErrLevelsLoadFailed ErrCode = "LEVELS_LOAD_FAILED"
	ErrLevelStartFailed ErrCode = "LEVEL_START_FAILED"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrStartPending     ErrCode = "START_PENDING"
	ErrQuizActive       ErrCode = "QUIZ_IN_PROGRESS"
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrReportNotFound   ErrCode = "REPORT_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable message for a given error code.
// Load-failure codes usually travel with a verbatim upstream message
// instead (see FailWithMessage); these are the fallbacks.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your login has expired. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	case ErrSubjectNotFound:
		return "We couldn’t find that focus track. Pick another subject to continue."
	case ErrLevelsLoadFailed:
		return "Unable to load levels right now."
	case ErrLevelStartFailed:
		return "Unable to load questions right now."
	case ErrNoQuestions:
		return "No questions available for this level yet."
	case ErrStartPending:
		return "Another level is already starting."
	case ErrQuizActive:
		return "A practice session is already running."
	case ErrSessionNotFound:
		return "No active practice session."
	case ErrReportNotFound:
		return "No performance report is available."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "Something went wrong."
	}
}
