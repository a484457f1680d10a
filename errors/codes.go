package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1006

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2004

	// Calls
	ErrorCode_CALL_NOT_FOUND      ErrorCode = 3000
	ErrorCode_CALL_NOT_ACTIVE     ErrorCode = 3001
	ErrorCode_CALL_ACCESS_DENIED  ErrorCode = 3002
	ErrorCode_CALL_START_FAILED   ErrorCode = 3003
	ErrorCode_CALL_STORE_FAILED   ErrorCode = 3004
	ErrorCode_CALL_MISSING_FIELDS ErrorCode = 3005

	// Summarization
	ErrorCode_AI_SUMMARY_FAILED         ErrorCode = 4000
	ErrorCode_AI_SERVICE_UNAVAILABLE    ErrorCode = 4001
	ErrorCode_AI_PROVIDER_MISCONFIGURED ErrorCode = 4002

	// Integrations
	ErrorCode_INTEGRATION_LIVEKIT_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_CALL_NOT_FOUND:             "CALL_NOT_FOUND",
	ErrorCode_CALL_NOT_ACTIVE:            "CALL_NOT_ACTIVE",
	ErrorCode_CALL_ACCESS_DENIED:         "CALL_ACCESS_DENIED",
	ErrorCode_CALL_START_FAILED:          "CALL_START_FAILED",
	ErrorCode_CALL_STORE_FAILED:          "CALL_STORE_FAILED",
	ErrorCode_CALL_MISSING_FIELDS:        "CALL_MISSING_FIELDS",
	ErrorCode_AI_SUMMARY_FAILED:          "AI_SUMMARY_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_PROVIDER_MISCONFIGURED:  "AI_PROVIDER_MISCONFIGURED",
	ErrorCode_INTEGRATION_LIVEKIT_FAILED: "INTEGRATION_LIVEKIT_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
