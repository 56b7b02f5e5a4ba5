package service

import (
	"time"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
)

// UserView is the profile representation returned to clients. It never
// carries the password hash.
type UserView struct {
	ID         int64                `json:"id"`
	Email      string               `json:"email"`
	FirstName  string               `json:"first_name"`
	LastName   string               `json:"last_name"`
	Phone      string               `json:"phone,omitempty"`
	Department string               `json:"department,omitempty"`
	Role       domain.Role          `json:"role"`
	Status     domain.AccountStatus `json:"account_status"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NewUserView projects an account record into its client view.
func NewUserView(u domain.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Department: u.Department,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthResult bundles a bearer token with the authenticated profile.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// CheckEmailResult tells a client whether to route to login or to
// password creation. It discloses nothing about the credential itself.
type CheckEmailResult struct {
	Exists      bool `json:"exists"`
	HasPassword bool `json:"has_password"`
}

// InternView joins an intern profile with its owning account.
type InternView struct {
	ID           int64                   `json:"id"`
	User         UserView                `json:"user"`
	SupervisorID *int64                  `json:"supervisor_id,omitempty"`
	School       string                  `json:"school,omitempty"`
	Department   string                  `json:"department,omitempty"`
	StartDate    *time.Time              `json:"start_date,omitempty"`
	EndDate      *time.Time              `json:"end_date,omitempty"`
	Status       domain.InternshipStatus `json:"status"`
}

// SupervisorView joins a supervisor profile with its owning account.
type SupervisorView struct {
	ID             int64    `json:"id"`
	User           UserView `json:"user"`
	Department     string   `json:"department,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
}

// RegisterAdminInput creates an already-usable administrator account.
type RegisterAdminInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	Department string
}

// RegisterSupervisorInput creates a supervisor shell account with no
// password; the supervisor claims it later via password creation.
type RegisterSupervisorInput struct {
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	Department     string
	Specialization string
}

// RegisterInternInput creates an intern shell account. SupervisorUserID,
// when set, references the supervisor's account id (not the profile id).
type RegisterInternInput struct {
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	Department       string
	School           string
	Major            string
	StartDate        *time.Time
	EndDate          *time.Time
	SupervisorUserID *int64
}

// UpdateUserInput carries optional descriptive-field edits. Nil means
// leave the field untouched.
type UpdateUserInput struct {
	Email      *string
	FirstName  *string
	LastName   *string
	Phone      *string
	Department *string
}

// UpdateInternInput carries optional intern profile edits.
type UpdateInternInput struct {
	School           *string
	Major            *string
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *domain.InternshipStatus
	SupervisorUserID *int64
	ClearSupervisor  bool
}
