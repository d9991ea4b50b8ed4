package logger

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldFamilyID   = "family_id"
	FieldUserID     = "user_id"
	FieldCategoryID = "category_id"
	FieldBudgetID   = "budget_id"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldStatus     = "status"
	FieldMutation   = "mutation"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentEngine    = "engine"
	ComponentStorage   = "storage"
	ComponentNotify    = "notify"
	ComponentScheduler = "scheduler"
)
