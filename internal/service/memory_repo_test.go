package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
	"github.com/yoraldineaminah-commits/version20/internal/repository"
)

// memStore backs the in-memory repositories used by the service tests.
// A single mutex plays the role of the database's transaction boundary,
// so the uniqueness and compare-and-set behaviour matches Postgres.
type memStore struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	emails      map[string]int64
	supervisors map[int64]domain.Supervisor
	interns     map[int64]domain.Intern
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]domain.User),
		emails:      make(map[string]int64),
		supervisors: make(map[int64]domain.Supervisor),
		interns:     make(map[int64]domain.Intern),
	}
}

type memUsers struct{ s *memStore }
type memSupervisors struct{ s *memStore }
type memInterns struct{ s *memStore }

var (
	_ repository.UserRepository       = (*memUsers)(nil)
	_ repository.SupervisorRepository = (*memSupervisors)(nil)
	_ repository.InternRepository     = (*memInterns)(nil)
)

func (s *memStore) insertUserLocked(user domain.User) (domain.User, error) {
	if _, taken := s.emails[user.Email]; taken {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	return user, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.emails[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return r.s.users[id], nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.emails[email]
	return ok, nil
}

func (r *memUsers) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertUserLocked(user)
}

func (r *memUsers) Update(ctx context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[user.ID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if user.Email != stored.Email {
		if _, taken := r.s.emails[user.Email]; taken {
			return domain.User{}, repository.ErrDuplicateEmail
		}
		delete(r.s.emails, stored.Email)
		r.s.emails[user.Email] = user.ID
	}
	user.PasswordHash = stored.PasswordHash
	user.Status = stored.Status
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.s.users[user.ID] = user
	return user, nil
}

func (r *memUsers) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []domain.User
	for _, u := range r.s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *memUsers) SetPassword(ctx context.Context, userID int64, hash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok || user.PasswordHash != "" {
		return false, nil
	}
	user.PasswordHash = hash
	user.Status = domain.AccountActive
	user.UpdatedAt = time.Now().UTC()
	r.s.users[userID] = user
	return true, nil
}

func (r *memSupervisors) CreateWithUser(ctx context.Context, user domain.User, sup domain.Supervisor) (domain.User, domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.insertUserLocked(user)
	if err != nil {
		return domain.User{}, domain.Supervisor{}, err
	}
	sup.UserID = created.ID
	sup.CreatedAt = created.CreatedAt
	sup.UpdatedAt = created.UpdatedAt
	r.s.supervisors[sup.ID] = sup
	return created, sup, nil
}

func (r *memSupervisors) GetByUserID(ctx context.Context, userID int64) (domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.supervisors {
		if sup.UserID == userID {
			return sup, nil
		}
	}
	return domain.Supervisor{}, pgx.ErrNoRows
}

func (r *memSupervisors) GetByID(ctx context.Context, id int64) (domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.supervisors[id]
	if !ok {
		return domain.Supervisor{}, pgx.ErrNoRows
	}
	return sup, nil
}

func (r *memInterns) CreateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.insertUserLocked(user)
	if err != nil {
		return domain.User{}, domain.Intern{}, err
	}
	intern.UserID = created.ID
	intern.CreatedAt = created.CreatedAt
	intern.UpdatedAt = created.UpdatedAt
	r.s.interns[intern.ID] = intern
	return created, intern, nil
}

func (r *memInterns) GetByUserID(ctx context.Context, userID int64) (domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, intern := range r.s.interns {
		if intern.UserID == userID {
			return intern, nil
		}
	}
	return domain.Intern{}, pgx.ErrNoRows
}

func (r *memInterns) List(ctx context.Context) ([]domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var interns []domain.Intern
	for _, intern := range r.s.interns {
		interns = append(interns, intern)
	}
	return interns, nil
}

func (r *memInterns) ListBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var interns []domain.Intern
	for _, intern := range r.s.interns {
		if intern.SupervisorID != nil && *intern.SupervisorID == supervisorID {
			interns = append(interns, intern)
		}
	}
	return interns, nil
}

func (r *memInterns) UpdateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	storedUser, ok := r.s.users[user.ID]
	if !ok {
		return domain.User{}, domain.Intern{}, pgx.ErrNoRows
	}
	storedIntern, ok := r.s.interns[intern.ID]
	if !ok {
		return domain.User{}, domain.Intern{}, pgx.ErrNoRows
	}

	if user.Email != storedUser.Email {
		if _, taken := r.s.emails[user.Email]; taken {
			return domain.User{}, domain.Intern{}, repository.ErrDuplicateEmail
		}
		delete(r.s.emails, storedUser.Email)
		r.s.emails[user.Email] = user.ID
	}
	now := time.Now().UTC()
	user.PasswordHash = storedUser.PasswordHash
	user.Status = storedUser.Status
	user.CreatedAt = storedUser.CreatedAt
	user.UpdatedAt = now
	r.s.users[user.ID] = user

	intern.UserID = storedIntern.UserID
	intern.CreatedAt = storedIntern.CreatedAt
	intern.UpdatedAt = now
	r.s.interns[intern.ID] = intern
	return user, intern, nil
}
