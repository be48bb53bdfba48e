package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldUserID    = "user_id"
	FieldDomain    = "domain"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldDate      = "date"
	FieldInterval  = "interval"
	FieldEntryID   = "entry_id"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentBot       = "bot"
	ComponentStore     = "store"
	ComponentLedger    = "ledger"
	ComponentRules     = "rules"
	ComponentScheduler = "scheduler"
	ComponentDigest    = "digest"
	ComponentNotify    = "notify"
	ComponentAMQP      = "amqp"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpLoad     = "load"
	OpSave     = "save"
	OpTick     = "tick"
	OpNotify   = "notify"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
