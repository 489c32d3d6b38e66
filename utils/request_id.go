package utils

import "github.com/google/uuid"

const (
	// RequestIDKey stores the request id inside the gin context.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-ID"
)

// NewRequestID returns a random request id.
func NewRequestID() string {
	return uuid.NewString()
}
