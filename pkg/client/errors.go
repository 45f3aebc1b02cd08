package client

// ErrorClass represents a classification of request failures. It labels
// metrics and logs; callers match on domain.Error instead.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport faults (no response).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a 2xx response whose body was not valid JSON.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassUnexpected represents any other non-2xx status (1xx, 3xx).
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// classifyError categorizes a failed request by its status code or
// transport error.
func classifyError(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
