// pkg/model/cleaning.go
package model

// CleanOp records a single row-local repair made during processing.
// Repairs never abort the run; they are collected for audit logging.
type CleanOp struct {
	Column        string // Column that was repaired
	RowNum        int    // Source row the value came from
	GroupID       int    // Entity the row belongs to (0 if unknown yet)
	OriginalValue string // Raw value before the repair
	NewValue      string // Value after the repair (may be empty)
	Operation     string // Type of repair performed (e.g. "dob_parse")
	Reason        string // Why the repair was needed (e.g. "invalid_month")
}
