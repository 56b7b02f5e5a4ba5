package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoraldineaminah-commits/version20/internal/config"
	"github.com/yoraldineaminah-commits/version20/internal/domain"
	httptransport "github.com/yoraldineaminah-commits/version20/internal/http"
	"github.com/yoraldineaminah-commits/version20/internal/http/handler"
	httpmiddleware "github.com/yoraldineaminah-commits/version20/internal/http/middleware"
	"github.com/yoraldineaminah-commits/version20/internal/jwt"
	"github.com/yoraldineaminah-commits/version20/internal/repository"
	"github.com/yoraldineaminah-commits/version20/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{
		users:       make(map[int64]domain.User),
		emails:      make(map[string]int64),
		supervisors: make(map[int64]domain.Supervisor),
		interns:     make(map[int64]domain.Intern),
	}
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	cfg := config.Config{
		ServiceName:        "internship-api-test",
		AdminEmail:         config.DefaultAdminEmail,
		AdminPassword:      config.DefaultAdminPassword,
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		CORSAllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	issuer := jwt.NewIssuer("test-secret-0123456789abcdef0123", "internship-api-test", time.Minute)
	logger := zap.NewNop()

	users := &fakeUsers{store}
	sups := &fakeSupervisors{store}
	ints := &fakeInterns{store}
	accounts := service.NewAccountService(users, sups, ints, node, issuer, cfg, logger)
	supervisors := service.NewSupervisorService(users, sups, ints, logger)
	interns := service.NewInternService(users, sups, ints, logger)

	authHandler := handler.NewAuthHandler(accounts)
	userHandler := handler.NewUserHandler(supervisors, interns)
	authMiddleware := &httpmiddleware.Auth{Issuer: issuer}

	return httptransport.NewRouter(cfg, authHandler, userHandler, authMiddleware, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProvisioningFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register/supervisor", "", gin.H{
		"email":      "sup@x.com",
		"first_name": "Sami",
		"last_name":  "Alaoui",
		"department": "Engineering",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"PENDING"`)

	w = doJSON(t, router, http.MethodPost, "/api/auth/check-email", "", gin.H{"email": "sup@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var check service.CheckEmailResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	require.True(t, check.Exists)
	require.False(t, check.HasPassword)

	// Login before password creation routes to activation.
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "sup@x.com", "password": "P@ssword1"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "ACCOUNT_NOT_ACTIVATED")

	w = doJSON(t, router, http.MethodPost, "/api/auth/create-password", "", gin.H{"email": "sup@x.com", "password": "P@ssword1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created service.AuthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)
	require.Equal(t, domain.AccountActive, created.User.Status)

	// One-shot: the second attempt is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/auth/create-password", "", gin.H{"email": "sup@x.com", "password": "Other1234"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "PASSWORD_ALREADY_SET")

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "sup@x.com", "password": "P@ssword1"})
	require.Equal(t, http.StatusOK, w.Code)
	var auth service.AuthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "sup@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INCORRECT_PASSWORD")

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me service.UserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "sup@x.com", me.Email)

	w = doJSON(t, router, http.MethodGet, "/api/supervisors", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var supervisors []service.SupervisorView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supervisors))
	require.Len(t, supervisors, 1)
}

func TestMeRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInitAdminTwiceOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/init-admin", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/init-admin", "", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "EMAIL_EXISTS")
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register/admin", "", gin.H{
		"email": "not-an-email", "password": "Adm1nPass!", "first_name": "A", "last_name": "B",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/register/intern", "", gin.H{
		"email": "intern@x.com", "first_name": "Y", "last_name": "I", "start_date": "31-12-2024",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/register/intern", "", gin.H{
		"email": "intern@x.com", "first_name": "Y", "last_name": "I", "supervisor_id": 987654,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "SUPERVISOR_NOT_FOUND")
}

// fakeStore is a minimal in-memory stand-in for the Postgres
// repositories, guarded by one mutex.
type fakeStore struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	emails      map[string]int64
	supervisors map[int64]domain.Supervisor
	interns     map[int64]domain.Intern
}

type fakeUsers struct{ s *fakeStore }
type fakeSupervisors struct{ s *fakeStore }
type fakeInterns struct{ s *fakeStore }

var (
	_ repository.UserRepository       = (*fakeUsers)(nil)
	_ repository.SupervisorRepository = (*fakeSupervisors)(nil)
	_ repository.InternRepository     = (*fakeInterns)(nil)
)

func (s *fakeStore) insertUserLocked(user domain.User) (domain.User, error) {
	if _, taken := s.emails[user.Email]; taken {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	return user, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.emails[email]; ok {
		return r.s.users[id], nil
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *fakeUsers) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.users[id]; ok {
		return user, nil
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.emails[email]
	return ok, nil
}

func (r *fakeUsers) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertUserLocked(user)
}

func (r *fakeUsers) Update(ctx context.Context, user domain.User) (domain.User, error) {
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
	r.s.users[user.ID] = user
	return user, nil
}

func (r *fakeUsers) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
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

func (r *fakeUsers) SetPassword(ctx context.Context, userID int64, hash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok || user.PasswordHash != "" {
		return false, nil
	}
	user.PasswordHash = hash
	user.Status = domain.AccountActive
	r.s.users[userID] = user
	return true, nil
}

func (r *fakeSupervisors) CreateWithUser(ctx context.Context, user domain.User, sup domain.Supervisor) (domain.User, domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.insertUserLocked(user)
	if err != nil {
		return domain.User{}, domain.Supervisor{}, err
	}
	sup.UserID = created.ID
	r.s.supervisors[sup.ID] = sup
	return created, sup, nil
}

func (r *fakeSupervisors) GetByUserID(ctx context.Context, userID int64) (domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.supervisors {
		if sup.UserID == userID {
			return sup, nil
		}
	}
	return domain.Supervisor{}, pgx.ErrNoRows
}

func (r *fakeSupervisors) GetByID(ctx context.Context, id int64) (domain.Supervisor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup, ok := r.s.supervisors[id]; ok {
		return sup, nil
	}
	return domain.Supervisor{}, pgx.ErrNoRows
}

func (r *fakeInterns) CreateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.insertUserLocked(user)
	if err != nil {
		return domain.User{}, domain.Intern{}, err
	}
	intern.UserID = created.ID
	r.s.interns[intern.ID] = intern
	return created, intern, nil
}

func (r *fakeInterns) GetByUserID(ctx context.Context, userID int64) (domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, intern := range r.s.interns {
		if intern.UserID == userID {
			return intern, nil
		}
	}
	return domain.Intern{}, pgx.ErrNoRows
}

func (r *fakeInterns) List(ctx context.Context) ([]domain.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var interns []domain.Intern
	for _, intern := range r.s.interns {
		interns = append(interns, intern)
	}
	return interns, nil
}

func (r *fakeInterns) ListBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Intern, error) {
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

func (r *fakeInterns) UpdateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
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
	user.PasswordHash = storedUser.PasswordHash
	user.Status = storedUser.Status
	r.s.users[user.ID] = user

	intern.UserID = storedIntern.UserID
	r.s.interns[intern.ID] = intern
	return user, intern, nil
}
