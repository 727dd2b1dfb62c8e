package log

// Field names shared across components, so log aggregation can pivot
// on one spelling of each key.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldError     = "error"

	FieldAccountUID  = "account_uid"
	FieldGoalUID     = "goal_uid"
	FieldTransferUID = "transfer_uid"
	FieldMinorUnits  = "minor_units"
	FieldCurrency    = "currency"
	FieldWeekIndex   = "week_index"
)

// Components defines standard component names
const (
	ComponentHTTP   = "http"
	ComponentWorker = "worker"
)
