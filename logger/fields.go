package logger

// Standard field names for consistent structured logging across clwm.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldQuery     = "query"
	FieldSource    = "change_source"
	FieldChangeSet = "change_set"

	// Entities
	FieldEntity   = "entity"
	FieldEntityID = "entity_id"
	FieldName     = "name"
	FieldVersion  = "version"

	// History
	FieldLinesAdded   = "lines_added"
	FieldLinesDeleted = "lines_deleted"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldDepth = "depth"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
)
