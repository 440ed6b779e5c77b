package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing Fields (Context level)
// Propagated through the call chain with the request context
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldSessionID is the search session ID
	FieldSessionID = "session_id"

	// FieldGeneration is the search generation a fetch belongs to
	FieldGeneration = "generation"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the catalog identifier
	FieldSource = "source"

	// FieldUserID is the signed-in user
	FieldUserID = "user_id"
)

// ============================================
// Metric Fields (Entry level)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldScanned is the number of raw upstream records examined
	FieldScanned = "scanned"

	// FieldAttempts is the number of upstream page fetches
	FieldAttempts = "attempts"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
