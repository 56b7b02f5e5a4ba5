package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoraldineaminah-commits/version20/internal/http/middleware"
	"github.com/yoraldineaminah-commits/version20/internal/service"
)

// AuthHandler exposes the account lifecycle endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// CheckEmail lets a client branch between login and password creation.
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email is required."})
		return
	}

	result, err := h.Accounts.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreatePassword performs the one-time account activation.
func (h *AuthHandler) CreatePassword(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and a password of at least 8 characters are required."})
		return
	}

	result, err := h.Accounts.CreatePassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password are required."})
		return
	}

	result, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegisterAdmin creates an immediately-usable administrator account.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req struct {
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=8"`
		FirstName  string `json:"first_name" binding:"required"`
		LastName   string `json:"last_name" binding:"required"`
		Phone      string `json:"phone"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid admin registration payload."})
		return
	}

	view, err := h.Accounts.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// RegisterSupervisor creates a password-less supervisor account.
func (h *AuthHandler) RegisterSupervisor(c *gin.Context) {
	var req struct {
		Email          string `json:"email" binding:"required,email"`
		FirstName      string `json:"first_name" binding:"required"`
		LastName       string `json:"last_name" binding:"required"`
		Phone          string `json:"phone"`
		Department     string `json:"department" binding:"required"`
		Specialization string `json:"specialization"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid supervisor registration payload."})
		return
	}

	view, err := h.Accounts.RegisterSupervisor(c.Request.Context(), service.RegisterSupervisorInput{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Department:     req.Department,
		Specialization: req.Specialization,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// RegisterIntern creates a password-less intern account, optionally
// assigned to a supervisor.
func (h *AuthHandler) RegisterIntern(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required,email"`
		FirstName    string `json:"first_name" binding:"required"`
		LastName     string `json:"last_name" binding:"required"`
		Phone        string `json:"phone"`
		Department   string `json:"department"`
		School       string `json:"school"`
		Major        string `json:"major"`
		StartDate    string `json:"start_date"`
		EndDate      string `json:"end_date"`
		SupervisorID *int64 `json:"supervisor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid intern registration payload."})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "start_date must be YYYY-MM-DD."})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "end_date must be YYYY-MM-DD."})
		return
	}

	view, err := h.Accounts.RegisterIntern(c.Request.Context(), service.RegisterInternInput{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Department:       req.Department,
		School:           req.School,
		Major:            req.Major,
		StartDate:        startDate,
		EndDate:          endDate,
		SupervisorUserID: req.SupervisorID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// InitAdmin creates the reserved default administrator.
func (h *AuthHandler) InitAdmin(c *gin.Context) {
	view, err := h.Accounts.InitDefaultAdmin(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing token claims."})
		return
	}
	id, err := claims.SubjectID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Malformed token claims."})
		return
	}

	view, err := h.Accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Logout is stateless; tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func respondServiceError(c *gin.Context, err error) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		c.JSON(authErr.Status, gin.H{"error": authErr.Code, "error_description": authErr.Description})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Unexpected error."})
}
