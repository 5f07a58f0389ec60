package constants

const (
	ContentTypeJSON   = "application/json"
	ContentTypeText   = "text/plain"
	ContentTypeHeader = "Content-Type"

	HeaderXRequestID = "X-Relay-Request-ID"
)
