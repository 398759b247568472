package apperror

// Infrastructure error codes (Database, Network, External)
const (
	CodeDbConnectionFailed = "DB_CONNECTION_FAILED"
	CodeDbTimeout          = "DB_TIMEOUT"
	CodeDbDeadlock         = "DB_DEADLOCK"
	CodeDbConstraint       = "DB_CONSTRAINT"
	CodeDbConflict         = "DB_CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Pipeline error codes. These mirror the failure taxonomy of the run loop:
// transient fetch failures stay local to a worker, configuration defects are
// fatal before any worker starts.
const (
	CodeFetchFailed    = "FETCH_FAILED"     // observation transport failure
	CodeCallbackFailed = "CALLBACK_FAILED"  // user callback raised
	CodeExportFailed   = "EXPORT_FAILED"    // exporter write failure
	CodeSessionMissing = "SESSION_MISSING"  // exporter names an unknown session
	CodeRouterRejected = "ROUTER_REJECTED"  // item of unknown kind, or finding from adapter
	CodePipelineConfig = "PIPELINE_CONFIG"  // bad settings, no observers
	CodeNotAllowed     = "URL_NOT_ALLOWED"  // URL outside the allow-list
	CodeValidation     = "VALIDATION_ERROR" // structural validation failure
	CodeNotFound       = "NOT_FOUND"
)

var (
	ErrCodeDbConnectionFailed = NewTransient(CodeDbConnectionFailed, "Database connection failed", nil)
	ErrCodeFetchFailed        = NewTransient(CodeFetchFailed, "Observation fetch failed", nil)
	ErrCodeSessionMissing     = NewInternal(CodeSessionMissing, "Session not found in registry", nil)
	ErrCodePipelineConfig     = NewInternal(CodePipelineConfig, "Invalid pipeline configuration", nil)
)
