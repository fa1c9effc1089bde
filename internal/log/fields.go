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
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldOwnerID    = "owner_id"
	FieldKind       = "kind"
	FieldMonth      = "month"
	FieldAsset      = "asset"
	FieldItemCount  = "items"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSnapshot = "snapshot"
	ComponentMutation = "mutation"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpSave     = "save"
	OpDelete   = "delete"
	OpRebuild  = "rebuild"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
