// Package scholarships serves scholarship award records: the monthly
// amounts granted to a scholar for a session, with their current status.
//
// The approval workflow behind the status values (who moves an award from
// pending to approved) is not modeled here -- only the recorded status is
// exposed. Reads are role-scoped the same way the student directory is.
package scholarships

import (
	"time"
)

// Status is the recorded state of a scholarship award.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
)

// Scholarship is one award record. Scoping fields (student email,
// department, supervisor email) are carried on the record so role checks
// don't need a join against the student directory.
type Scholarship struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Session   string `json:"session"`
	Status    Status `json:"status"`

	BasicAmount int `json:"basic_amount"`
	HRAAmount   int `json:"hra_amount"`

	StudentEmail    string `json:"student_email"`
	Department      string `json:"department"`
	SupervisorEmail string `json:"supervisor_email"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
