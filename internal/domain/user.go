package domain

import "time"

// Role classifies an account. It is fixed for the lifetime of the user.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleIntern     Role = "INTERN"
)

// AccountStatus governs whether a user may sign in.
//
// Every non-admin account starts PENDING and becomes ACTIVE once its
// password is established. DISABLED blocks sign-in; nothing in this
// service transitions an account into it.
type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountActive   AccountStatus = "ACTIVE"
	AccountDisabled AccountStatus = "DISABLED"
)

// User is the central account record. An empty PasswordHash means the
// account exists but cannot sign in yet; such a user is always PENDING.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Department   string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user has established a credential.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
