// Package faculty exposes the supervising-faculty directory. HODs use it to
// see the supervisors in their department; the dean sees the whole roster.
// Faculty records are user accounts with the supervisor role, projected to
// a directory entry without credentials.
package faculty

// Faculty is one supervising faculty member as shown in the directory.
type Faculty struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Department  string  `json:"department"`
	Designation string  `json:"designation"`
	Course      *string `json:"course,omitempty"`
}
