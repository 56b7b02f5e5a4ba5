package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
	"github.com/yoraldineaminah-commits/version20/internal/repository"
)

// SupervisorService exposes read and edit operations over supervisor
// accounts. Creation goes through AccountService.RegisterSupervisor;
// deletion is not part of this service.
type SupervisorService struct {
	users       repository.UserRepository
	supervisors repository.SupervisorRepository
	interns     repository.InternRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewSupervisorService(users repository.UserRepository, supervisors repository.SupervisorRepository, interns repository.InternRepository, logger *zap.Logger) *SupervisorService {
	return &SupervisorService{
		users:       users,
		supervisors: supervisors,
		interns:     interns,
		logger:      logger,
		tracer:      otel.Tracer("github.com/yoraldineaminah-commits/version20/internal/service"),
	}
}

// List returns every supervisor with its profile.
func (s *SupervisorService) List(ctx context.Context) ([]SupervisorView, error) {
	ctx, span := s.tracer.Start(ctx, "SupervisorService.List")
	defer span.End()

	users, err := s.users.ListByRole(ctx, domain.RoleSupervisor)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list supervisors: %w", err)
	}

	views := make([]SupervisorView, 0, len(users))
	for _, u := range users {
		profile, err := s.supervisors.GetByUserID(ctx, u.ID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("load supervisor profile: %w", err)
		}
		views = append(views, supervisorView(u, profile))
	}
	return views, nil
}

// Get returns one supervisor, keyed by the owning account id.
func (s *SupervisorService) Get(ctx context.Context, userID int64) (*SupervisorView, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := supervisorView(user, profile)
	return &view, nil
}

// ListInterns returns the interns assigned to a supervisor.
func (s *SupervisorService) ListInterns(ctx context.Context, userID int64) ([]InternView, error) {
	ctx, span := s.tracer.Start(ctx, "SupervisorService.ListInterns")
	defer span.End()

	_, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	interns, err := s.interns.ListBySupervisor(ctx, profile.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list supervisor interns: %w", err)
	}

	views := make([]InternView, 0, len(interns))
	for _, intern := range interns {
		owner, err := s.users.GetByID(ctx, intern.UserID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("load intern user: %w", err)
		}
		views = append(views, internView(owner, intern))
	}
	return views, nil
}

// Update edits the descriptive fields of a supervisor account. An email
// change re-checks uniqueness; the credential and status are untouched.
func (s *SupervisorService) Update(ctx context.Context, userID int64, in UpdateUserInput) (*SupervisorView, error) {
	ctx, span := s.tracer.Start(ctx, "SupervisorService.Update")
	defer span.End()

	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := applyUserPatch(ctx, s.users, user, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("audit", zap.String("event", "supervisor.updated"), zap.Int64("user_id", userID))
	view := supervisorView(updated, profile)
	return &view, nil
}

func (s *SupervisorService) load(ctx context.Context, userID int64) (domain.User, domain.Supervisor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.Supervisor{}, ErrSupervisorNotFound
	}
	if err != nil {
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("load user: %w", err)
	}
	if user.Role != domain.RoleSupervisor {
		return domain.User{}, domain.Supervisor{}, ErrNotASupervisor
	}
	profile, err := s.supervisors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.Supervisor{}, ErrSupervisorNotFound
	}
	if err != nil {
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("load supervisor profile: %w", err)
	}
	return user, profile, nil
}

func supervisorView(u domain.User, p domain.Supervisor) SupervisorView {
	return SupervisorView{
		ID:             p.ID,
		User:           NewUserView(u),
		Department:     p.Department,
		Specialization: p.Specialization,
	}
}

func internView(u domain.User, i domain.Intern) InternView {
	return InternView{
		ID:           i.ID,
		User:         NewUserView(u),
		SupervisorID: i.SupervisorID,
		School:       i.School,
		Department:   i.Department,
		StartDate:    i.StartDate,
		EndDate:      i.EndDate,
		Status:       i.Status,
	}
}

// patchUser folds the non-nil descriptive fields into the record without
// persisting it. Email changes are pre-checked against the uniqueness
// constraint; the store remains the authority on write.
func patchUser(ctx context.Context, users repository.UserRepository, user domain.User, in UpdateUserInput) (domain.User, error) {
	if in.Email != nil && *in.Email != user.Email {
		exists, err := users.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return domain.User{}, fmt.Errorf("check email availability: %w", err)
		}
		if exists {
			return domain.User{}, ErrEmailExists
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	return user, nil
}

// applyUserPatch patches and persists the account row.
func applyUserPatch(ctx context.Context, users repository.UserRepository, user domain.User, in UpdateUserInput) (domain.User, error) {
	patched, err := patchUser(ctx, users, user, in)
	if err != nil {
		return domain.User{}, err
	}

	updated, err := users.Update(ctx, patched)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return domain.User{}, ErrEmailExists
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
