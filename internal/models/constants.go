package models

// Booking status values.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	// StatusCanceled has no producing transition yet; reserved for a
	// future cancellation endpoint.
	StatusCanceled = "CANCELED"
)

// Booking list filters. Waiting and rejected match the status of the
// same name; the rest select by time range relative to "now".
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

// Report task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusRetry      = "retry"
	TaskStatusDone       = "done"
	TaskStatusDeadLetter = "dead_letter"
)

const (
	// ReportWorkerQueueSize bounds the in-memory report task buffer.
	ReportWorkerQueueSize = 100

	// SearchCacheTTL is how long cached search results stay valid.
	SearchCacheTTL = 5 * 60 // seconds
)
