package records

import "time"

// User is an application user row. CreatedBy holds the email the hosted auth
// widget authenticated, and is the lookup key for the current user.
type User struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	Age             int      `json:"age"`
	Location        string   `json:"location"`
	Folders         []string `json:"folders"`
	TreatmentCounts int      `json:"treatment_counts"`
	CreatedBy       string   `json:"created_by"`
}

// CreateUserRequest represents the request to create a new user
type CreateUserRequest struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
	Location string `json:"location"`
}

// Record is a medical record row
type Record struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	RecordName     string    `json:"record_name"`
	AnalysisResult string    `json:"analysis_result"`
	KanbanRecords  string    `json:"kanban_records"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRecordRequest represents the request to create a medical record
type CreateRecordRequest struct {
	UserID         int64  `json:"user_id"`
	RecordName     string `json:"record_name"`
	AnalysisResult string `json:"analysis_result"`
	KanbanRecords  string `json:"kanban_records"`
}

// UpdateRecordRequest represents a partial update of a medical record
type UpdateRecordRequest struct {
	RecordName     *string `json:"record_name,omitempty"`
	AnalysisResult *string `json:"analysis_result,omitempty"`
	KanbanRecords  *string `json:"kanban_records,omitempty"`
}
