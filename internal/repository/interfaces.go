package repository

import (
	"context"
	"errors"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
)

// ErrDuplicateEmail is returned by create operations when the email
// uniqueness constraint rejects the row. The store, not the caller, is
// the authority on uniqueness; concurrent registrations for the same
// email resolve to exactly one success and one ErrDuplicateEmail.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository exposes persistence for account records.
//
// Lookups signal a missing row with an error satisfying
// errors.Is(err, pgx.ErrNoRows).
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// SetPassword stores the hash and activates the account in one
	// compare-and-set: it only applies when no hash is stored yet.
	// It reports false when another writer already set one.
	SetPassword(ctx context.Context, userID int64, hash string) (bool, error)
}

// SupervisorRepository persists supervisor role profiles.
type SupervisorRepository interface {
	// CreateWithUser inserts the account and its supervisor profile in
	// a single transaction; neither row survives a failure of the other.
	CreateWithUser(ctx context.Context, user domain.User, sup domain.Supervisor) (domain.User, domain.Supervisor, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Supervisor, error)
	GetByID(ctx context.Context, id int64) (domain.Supervisor, error)
}

// InternRepository persists intern role profiles.
type InternRepository interface {
	// CreateWithUser inserts the account and its intern profile in a
	// single transaction.
	CreateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Intern, error)
	List(ctx context.Context) ([]domain.Intern, error)
	ListBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Intern, error)

	// UpdateWithUser writes the account row and the intern profile in a
	// single transaction; a failure of either write leaves both untouched.
	UpdateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error)
}
