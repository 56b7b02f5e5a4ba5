package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yoraldineaminah-commits/version20/internal/config"
	"github.com/yoraldineaminah-commits/version20/internal/domain"
	"github.com/yoraldineaminah-commits/version20/internal/jwt"
	pw "github.com/yoraldineaminah-commits/version20/internal/password"
	"github.com/yoraldineaminah-commits/version20/internal/repository"
)

// AccountService drives the account lifecycle: registration in one of
// three roles, the PENDING -> ACTIVE transition via password creation,
// and credential verification at login.
type AccountService struct {
	users       repository.UserRepository
	supervisors repository.SupervisorRepository
	interns     repository.InternRepository
	node        *snowflake.Node
	issuer      *jwt.Issuer
	cfg         config.Config
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewAccountService wires dependencies.
func NewAccountService(users repository.UserRepository, supervisors repository.SupervisorRepository, interns repository.InternRepository, node *snowflake.Node, issuer *jwt.Issuer, cfg config.Config, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:       users,
		supervisors: supervisors,
		interns:     interns,
		node:        node,
		issuer:      issuer,
		cfg:         cfg,
		logger:      logger,
		tracer:      otel.Tracer("github.com/yoraldineaminah-commits/version20/internal/service"),
	}
}

// CheckEmail reports whether an account exists for the email and whether
// it already has a password. It performs no writes.
func (s *AccountService) CheckEmail(ctx context.Context, email string) (CheckEmailResult, error) {
	ctx, span := s.startSpan(ctx, "AccountService.CheckEmail")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return CheckEmailResult{Exists: false, HasPassword: false}, nil
	}
	if err != nil {
		span.RecordError(err)
		return CheckEmailResult{}, fmt.Errorf("check email: %w", err)
	}
	return CheckEmailResult{Exists: true, HasPassword: user.HasPassword()}, nil
}

// CreatePassword performs the one-shot PENDING -> ACTIVE transition:
// it stores the credential, activates the account, and signs the caller
// in. It never overwrites an existing credential.
func (s *AccountService) CreatePassword(ctx context.Context, email, secret string) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AccountService.CreatePassword")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.HasPassword() {
		return nil, ErrPasswordAlreadySet
	}

	hash, err := pw.Hash(secret)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The store applies the write only if no hash landed since the read
	// above; a concurrent winner turns this call into a no-op.
	applied, err := s.users.SetPassword(ctx, user.ID, hash)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("set password: %w", err)
	}
	if !applied {
		return nil, ErrPasswordAlreadySet
	}

	user.PasswordHash = hash
	user.Status = domain.AccountActive

	token, err := s.issuer.Issue(user)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit("password.created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResult{Token: token, User: NewUserView(user)}, nil
}

// Login verifies credentials and issues a token. The checks run in a
// fixed order so a missing credential is never reported as a mismatch.
func (s *AccountService) Login(ctx context.Context, email, secret string) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AccountService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrAccountNotActivated
	}

	match, err := pw.Verify(secret, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, ErrIncorrectPassword
	}

	if user.Status != domain.AccountActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit("login.success", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResult{Token: token, User: NewUserView(user)}, nil
}

// RegisterAdmin creates an administrator account that is usable
// immediately: credential set, status ACTIVE.
func (s *AccountService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*UserView, error) {
	ctx, span := s.startSpan(ctx, "AccountService.RegisterAdmin")
	defer span.End()

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		span.RecordError(err)
		return nil, err
	}

	hash, err := pw.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           s.node.Generate().Int64(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Department:   in.Department,
		Role:         domain.RoleAdmin,
		Status:       domain.AccountActive,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, s.translateCreateErr(span, err)
	}

	s.audit("register.admin", zap.Int64("user_id", created.ID))
	view := NewUserView(created)
	return &view, nil
}

// RegisterSupervisor creates a PENDING supervisor account and its
// profile in one transaction. Specialization falls back to department.
func (s *AccountService) RegisterSupervisor(ctx context.Context, in RegisterSupervisorInput) (*UserView, error) {
	ctx, span := s.startSpan(ctx, "AccountService.RegisterSupervisor")
	defer span.End()

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		span.RecordError(err)
		return nil, err
	}

	specialization := in.Specialization
	if specialization == "" {
		specialization = in.Department
	}

	user := domain.User{
		ID:         s.node.Generate().Int64(),
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Department: in.Department,
		Role:       domain.RoleSupervisor,
		Status:     domain.AccountPending,
	}
	profile := domain.Supervisor{
		ID:             s.node.Generate().Int64(),
		Department:     in.Department,
		Specialization: specialization,
	}

	created, _, err := s.supervisors.CreateWithUser(ctx, user, profile)
	if err != nil {
		return nil, s.translateCreateErr(span, err)
	}

	s.audit("register.supervisor", zap.Int64("user_id", created.ID))
	view := NewUserView(created)
	return &view, nil
}

// RegisterIntern creates a PENDING intern account and its profile in one
// transaction. A supervisor reference, when present, must resolve to an
// existing supervisor profile before anything is written.
func (s *AccountService) RegisterIntern(ctx context.Context, in RegisterInternInput) (*UserView, error) {
	ctx, span := s.startSpan(ctx, "AccountService.RegisterIntern")
	defer span.End()

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var supervisorID *int64
	if in.SupervisorUserID != nil {
		sup, err := s.supervisors.GetByUserID(ctx, *in.SupervisorUserID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupervisorNotFound
		}
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("resolve supervisor: %w", err)
		}
		supervisorID = &sup.ID
	}

	user := domain.User{
		ID:         s.node.Generate().Int64(),
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Department: in.Department,
		Role:       domain.RoleIntern,
		Status:     domain.AccountPending,
	}
	profile := domain.Intern{
		ID:           s.node.Generate().Int64(),
		SupervisorID: supervisorID,
		School:       in.School,
		Department:   in.Major,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Status:       domain.InternshipPending,
	}

	created, _, err := s.interns.CreateWithUser(ctx, user, profile)
	if err != nil {
		return nil, s.translateCreateErr(span, err)
	}

	s.audit("register.intern", zap.Int64("user_id", created.ID))
	view := NewUserView(created)
	return &view, nil
}

// InitDefaultAdmin creates the reserved bootstrap administrator. A
// second invocation fails with EMAIL_EXISTS and writes nothing, which
// makes the operation safe to re-run at every startup.
func (s *AccountService) InitDefaultAdmin(ctx context.Context) (*UserView, error) {
	ctx, span := s.startSpan(ctx, "AccountService.InitDefaultAdmin")
	defer span.End()

	view, err := s.RegisterAdmin(ctx, RegisterAdminInput{
		Email:      s.cfg.AdminEmail,
		Password:   s.cfg.AdminPassword,
		FirstName:  "System",
		LastName:   "Admin",
		Phone:      "+212600000000",
		Department: "IT",
	})
	if err != nil {
		return nil, err
	}

	s.audit("bootstrap.admin", zap.Int64("user_id", view.ID), zap.String("email", view.Email))
	return view, nil
}

// GetByID loads a profile view, for token-authenticated self lookups.
func (s *AccountService) GetByID(ctx context.Context, id int64) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	view := NewUserView(user)
	return &view, nil
}

// ensureEmailFree is a fast-path check only. The store's unique
// constraint remains the authority; translateCreateErr handles the
// concurrent case where two registrations race past this check.
func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email availability: %w", err)
	}
	if exists {
		return ErrEmailExists
	}
	return nil
}

func (s *AccountService) translateCreateErr(span trace.Span, err error) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return ErrEmailExists
	}
	span.RecordError(err)
	return fmt.Errorf("create account: %w", err)
}

func (s *AccountService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AccountService) audit(event string, fields ...zap.Field) {
	logger := s.logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Info("audit", append([]zap.Field{zap.String("event", event)}, fields...)...)
}
