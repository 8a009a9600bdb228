package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldConfigKey     = "config_key"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpExport   = "export"
	OpReport   = "report"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Fields is an ordered list of key/value pairs for slog.
type Fields []any

// NewFields creates an empty field list.
func NewFields() Fields {
	return Fields{}
}

// WithComponent adds component field
func (f Fields) WithComponent(component string) Fields {
	return append(f, FieldComponent, component)
}

// WithOperation adds operation field
func (f Fields) WithOperation(op string) Fields {
	return append(f, FieldOperation, op)
}

// WithError adds error field
func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error())
}

// WithPeriod adds year and month fields.
func (f Fields) WithPeriod(year, month int) Fields {
	return append(f, FieldYear, year, FieldMonth, month)
}

// WithTransaction adds the identifying fields of a ledger entry.
func (f Fields) WithTransaction(id int64, kind, category string, amountCents int64) Fields {
	return append(f,
		FieldTransactionID, id,
		FieldKind, kind,
		FieldCategory, category,
		FieldAmountCents, amountCents)
}

// WithHTTPRequest adds HTTP request fields
func (f Fields) WithHTTPRequest(method, path, query string) Fields {
	return append(f, FieldMethod, method, FieldPath, path, FieldQuery, query)
}

// WithHTTPResponse adds HTTP response fields
func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	return append(f, FieldStatusCode, statusCode, FieldDuration, durationMs, FieldSuccess, statusCode < 400)
}
