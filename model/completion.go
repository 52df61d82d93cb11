package model

// CompletionResult is the closed outcome taxonomy for a completion call.
// Callers switch on it exhaustively instead of handling SDK-specific errors.
type CompletionResult int

const (
	// ResultOK means the backend returned a reply.
	ResultOK CompletionResult = iota
	// ResultTooLong means the rendered conversation exceeded the model's
	// maximum context length.
	ResultTooLong
	// ResultBlocked means the content was filtered by the provider's
	// safety systems.
	ResultBlocked
	// ResultInvalidRequest is the catch-all for malformed requests that
	// are neither too long nor filtered.
	ResultInvalidRequest
	// ResultOtherError covers everything else: transport failures, auth,
	// timeouts, cancellation, unexpected response shapes.
	ResultOtherError
)

// String returns the result name for logging and display.
func (r CompletionResult) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultTooLong:
		return "too_long"
	case ResultBlocked:
		return "blocked"
	case ResultInvalidRequest:
		return "invalid_request"
	case ResultOtherError:
		return "other_error"
	default:
		return "unknown"
	}
}

// CompletionData is the unified result of a completion call.
// Exactly one of ReplyText and StatusText is populated: ReplyText when
// Status is ResultOK, StatusText (the fault's diagnostic message) otherwise.
type CompletionData struct {
	Status     CompletionResult
	ReplyText  string
	StatusText string
}
