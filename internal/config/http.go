package config

const (
	HCType        = "Content-Type"
	HCacheControl = "Cache-Control"
	HETag         = "ETag"
	HRequestID    = "X-Request-ID"

	CTypeJSON = "application/json"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeCSS  = "text/css"
	CTypeSSE  = "text/event-stream"
)

const HTTPErrStreaming = "Streaming unsupported"
