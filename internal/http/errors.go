package http

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindUnexpected covers everything without a dedicated message,
	// including a 200 response with an unexpected body.
	KindUnexpected Kind = iota
	// KindValidation is an HTTP 400.
	KindValidation
	// KindFormat is an HTTP 406.
	KindFormat
	// KindFunds is an HTTP 409: the wallet cannot pay for the request.
	KindFunds
	// KindServer is an HTTP 500.
	KindServer
	// KindNetwork means no response was received.
	KindNetwork
	// KindUnauthorized is an HTTP 401 or 403.
	KindUnauthorized
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFormat:
		return "format"
	case KindFunds:
		return "funds"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unexpected"
	}
}

// User-facing messages.
const (
	MsgValidationError    = "Validation error: "
	MsgInvalidFormat      = "Invalid format: "
	MsgInsufficientFunds  = "Insufficient funds. Please top up your wallet and try again."
	MsgServerError        = "Server error. Please try again later."
	MsgNetworkError       = "Network error. Please check your connection and try again."
	MsgUnexpectedResponse = "Unexpected response from server."
	MsgUnauthorized       = "Your session has expired. Please log in again."

	defaultValidationDetail = "please check your input."
	defaultFormatDetail     = "one of the files has an unsupported format."
)

// RequestError describes a failed API call.
type RequestError struct {
	Kind Kind

	// Status is the HTTP status code, zero when no response was received.
	Status int

	// ServerMessage is the message the API put in the response body.
	ServerMessage string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s error (HTTP %d): %v", e.Kind, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	case e.ServerMessage != "":
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Kind, e.Status, e.ServerMessage)
	default:
		return fmt.Sprintf("%s error (HTTP %d)", e.Kind, e.Status)
	}
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show to the artist.
func (e *RequestError) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return MsgValidationError + orDefault(e.ServerMessage, defaultValidationDetail)
	case KindFormat:
		return MsgInvalidFormat + orDefault(e.ServerMessage, defaultFormatDetail)
	case KindFunds:
		return MsgInsufficientFunds
	case KindServer:
		return MsgServerError
	case KindNetwork:
		return MsgNetworkError
	case KindUnauthorized:
		return MsgUnauthorized
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 && e.Status != 200 {
		return fmt.Sprintf("Request failed with status code %d", e.Status)
	}
	return MsgUnexpectedResponse
}

// Temporary reports whether retrying the same request may succeed.
func (e *RequestError) Temporary() bool {
	return e.Kind == KindNetwork || e.Status >= 500
}

// newStatusError classifies a non-success response.
func newStatusError(status int, body []byte) *RequestError {
	e := &RequestError{Status: status, ServerMessage: serverMessage(body)}
	switch status {
	case 400:
		e.Kind = KindValidation
	case 401, 403:
		e.Kind = KindUnauthorized
	case 406:
		e.Kind = KindFormat
	case 409:
		e.Kind = KindFunds
	case 500:
		e.Kind = KindServer
	default:
		e.Kind = KindUnexpected
	}
	return e
}

// serverMessage extracts a human message from an API response body.
func serverMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if s, ok := fields[key].(string); ok && s != "" {
				return s
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if strings.HasPrefix(msg, "{") || strings.HasPrefix(msg, "<") {
		return ""
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
