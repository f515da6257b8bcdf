package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCategory   = "category"
	FieldRowsSeen   = "rows_seen"
	FieldImported   = "imported"
	FieldBatch      = "batch"
	FieldBatchSize  = "batch_size"
	FieldRange      = "range"
	FieldSheetID    = "spreadsheet_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentImport  = "import"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpNormalize = "normalize"
	OpDelete    = "delete"
	OpInsert    = "insert"
	OpReplace   = "replace"
	OpImport    = "import"
	OpList      = "list"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
