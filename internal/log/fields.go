package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldQuery     = "query"
	FieldParams    = "params"
	FieldPath      = "path"
	FieldTable     = "table"
	FieldDate      = "date"
	FieldCurrency  = "currency"
	FieldExercise  = "exercise"
	FieldSkipped   = "skipped_rows"
	FieldSuccess   = "success"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentFinance = "finance"
	ComponentFitness = "fitness"
	ComponentFood    = "food"
	ComponentTracker = "tracker"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpOpen      = "open"
	OpClose     = "close"
	OpReconnect = "reconnect"
	OpQuery     = "query"
	OpExec      = "exec"
	OpMigrate   = "migrate"
	OpAnalyze   = "analyze"
	OpUpdate    = "update"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
