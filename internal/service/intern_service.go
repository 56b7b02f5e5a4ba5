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

// InternService exposes read and edit operations over intern accounts.
// Creation goes through AccountService.RegisterIntern.
type InternService struct {
	users       repository.UserRepository
	supervisors repository.SupervisorRepository
	interns     repository.InternRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewInternService(users repository.UserRepository, supervisors repository.SupervisorRepository, interns repository.InternRepository, logger *zap.Logger) *InternService {
	return &InternService{
		users:       users,
		supervisors: supervisors,
		interns:     interns,
		logger:      logger,
		tracer:      otel.Tracer("github.com/yoraldineaminah-commits/version20/internal/service"),
	}
}

// List returns every intern with its owning account.
func (s *InternService) List(ctx context.Context) ([]InternView, error) {
	ctx, span := s.tracer.Start(ctx, "InternService.List")
	defer span.End()

	interns, err := s.interns.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list interns: %w", err)
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

// Get returns one intern, keyed by the owning account id.
func (s *InternService) Get(ctx context.Context, userID int64) (*InternView, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := internView(user, profile)
	return &view, nil
}

// Update edits an intern's account fields and internship profile.
// Supervisor reassignment resolves the supervisor's account id to a
// profile before anything is written; ClearSupervisor unassigns.
func (s *InternService) Update(ctx context.Context, userID int64, userIn UpdateUserInput, profileIn UpdateInternInput) (*InternView, error) {
	ctx, span := s.tracer.Start(ctx, "InternService.Update")
	defer span.End()

	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profileIn.SupervisorUserID != nil {
		sup, err := s.supervisors.GetByUserID(ctx, *profileIn.SupervisorUserID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupervisorNotFound
		}
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("resolve supervisor: %w", err)
		}
		profile.SupervisorID = &sup.ID
	} else if profileIn.ClearSupervisor {
		profile.SupervisorID = nil
	}

	if profileIn.School != nil {
		profile.School = *profileIn.School
	}
	if profileIn.Major != nil {
		profile.Department = *profileIn.Major
	}
	if profileIn.StartDate != nil {
		profile.StartDate = profileIn.StartDate
	}
	if profileIn.EndDate != nil {
		profile.EndDate = profileIn.EndDate
	}
	if profileIn.Status != nil {
		profile.Status = *profileIn.Status
	}

	patched, err := patchUser(ctx, s.users, user, userIn)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Both rows commit together; a rejected profile write must not leave
	// the account edits behind.
	updatedUser, updatedProfile, err := s.interns.UpdateWithUser(ctx, patched, profile)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailExists
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update intern: %w", err)
	}

	s.logger.Info("audit", zap.String("event", "intern.updated"), zap.Int64("user_id", userID))
	view := internView(updatedUser, updatedProfile)
	return &view, nil
}

func (s *InternService) load(ctx context.Context, userID int64) (domain.User, domain.Intern, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.Intern{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("load user: %w", err)
	}
	if user.Role != domain.RoleIntern {
		return domain.User{}, domain.Intern{}, ErrNotAnIntern
	}
	profile, err := s.interns.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.Intern{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("load intern profile: %w", err)
	}
	return user, profile, nil
}
