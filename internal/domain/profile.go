package domain

import "time"

// Supervisor is the role profile attached to a SUPERVISOR user.
// Exactly one row exists per supervisor account.
type Supervisor struct {
	ID             int64
	UserID         int64
	Department     string
	Specialization string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InternshipStatus tracks the internship itself, independently of the
// account status of the owning user.
type InternshipStatus string

const (
	InternshipPending    InternshipStatus = "PENDING"
	InternshipActive     InternshipStatus = "ACTIVE"
	InternshipCompleted  InternshipStatus = "COMPLETED"
	InternshipTerminated InternshipStatus = "TERMINATED"
)

// Intern is the role profile attached to an INTERN user. SupervisorID is
// a weak reference; nil means the intern is unassigned.
type Intern struct {
	ID           int64
	UserID       int64
	SupervisorID *int64
	School       string
	Department   string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       InternshipStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
