// Package students serves the student directory: research scholars with
// their enrollment details, supervisor assignment, and scholarship amounts.
// Listing is role-scoped -- the dean sees every department, an HOD their
// own department, a supervisor only their assigned scholars.
package students

import (
	"time"
)

// Student is a research scholar record.
type Student struct {
	ID           string  `json:"id"`
	Enroll       string  `json:"enroll"`
	Registration string  `json:"registration"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phone_number"`
	Address      string  `json:"address"`
	Department   string  `json:"department"`
	Course       string  `json:"course"`
	University   string  `json:"university"`
	JoiningDate  time.Time `json:"joining_date"`

	// SupervisorEmail links the scholar to their supervising faculty
	// member's account.
	SupervisorEmail string `json:"supervisor"`

	ScholarshipBasic int `json:"scholarship_basic"`
	ScholarshipHRA   int `json:"scholarship_hra"`
}
