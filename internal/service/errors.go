package service

import "net/http"

// AuthError is a caller-recoverable outcome of an account operation.
// The Code is stable API vocabulary; handlers map Status to the HTTP
// response. Anything that is not an *AuthError is an unexpected failure
// and must be surfaced as such, never relabelled as one of these.
type AuthError struct {
	Code        string
	Description string
	Status      int
}

func (e *AuthError) Error() string {
	return e.Code
}

var (
	// ErrUserNotFound: no account carries the given email.
	ErrUserNotFound = &AuthError{Code: "USER_NOT_FOUND", Description: "No account exists for this email.", Status: http.StatusNotFound}

	// ErrEmailExists: the email is already bound to an account.
	ErrEmailExists = &AuthError{Code: "EMAIL_EXISTS", Description: "An account with this email already exists.", Status: http.StatusConflict}

	// ErrPasswordAlreadySet: the one-shot password creation was already
	// performed for this account.
	ErrPasswordAlreadySet = &AuthError{Code: "PASSWORD_ALREADY_SET", Description: "This account already has a password.", Status: http.StatusConflict}

	// ErrAccountNotActivated: the account exists but has no password
	// yet; the caller should be routed to password creation.
	ErrAccountNotActivated = &AuthError{Code: "ACCOUNT_NOT_ACTIVATED", Description: "This account has no password yet.", Status: http.StatusForbidden}

	// ErrIncorrectPassword: the password does not match.
	ErrIncorrectPassword = &AuthError{Code: "INCORRECT_PASSWORD", Description: "Wrong password.", Status: http.StatusUnauthorized}

	// ErrAccountDisabled: the credential is valid but the account is
	// not ACTIVE.
	ErrAccountDisabled = &AuthError{Code: "ACCOUNT_DISABLED", Description: "This account is not active.", Status: http.StatusForbidden}

	// ErrSupervisorNotFound: the referenced supervisor account has no
	// supervisor profile.
	ErrSupervisorNotFound = &AuthError{Code: "SUPERVISOR_NOT_FOUND", Description: "Referenced supervisor does not exist.", Status: http.StatusNotFound}

	// ErrNotASupervisor / ErrNotAnIntern guard the role-scoped
	// management endpoints against ids of the wrong role.
	ErrNotASupervisor = &AuthError{Code: "NOT_A_SUPERVISOR", Description: "Account is not a supervisor.", Status: http.StatusBadRequest}
	ErrNotAnIntern    = &AuthError{Code: "NOT_AN_INTERN", Description: "Account is not an intern.", Status: http.StatusBadRequest}
)
