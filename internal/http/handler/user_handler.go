package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
	"github.com/yoraldineaminah-commits/version20/internal/service"
)

// UserHandler exposes supervisor and intern management endpoints. All
// ids in paths are account ids, not profile ids.
type UserHandler struct {
	Supervisors *service.SupervisorService
	Interns     *service.InternService
}

func NewUserHandler(supervisors *service.SupervisorService, interns *service.InternService) *UserHandler {
	return &UserHandler{Supervisors: supervisors, Interns: interns}
}

func (h *UserHandler) ListSupervisors(c *gin.Context) {
	views, err := h.Supervisors.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *UserHandler) GetSupervisor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.Supervisors.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) ListSupervisorInterns(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	views, err := h.Supervisors.ListInterns(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type userPatchRequest struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

func (r userPatchRequest) toInput() service.UpdateUserInput {
	return service.UpdateUserInput{
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Department: r.Department,
	}
}

func (h *UserHandler) UpdateSupervisor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid supervisor update payload."})
		return
	}

	view, err := h.Supervisors.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) ListInterns(c *gin.Context) {
	views, err := h.Interns.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *UserHandler) GetIntern(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.Interns.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateIntern(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		userPatchRequest
		School          *string `json:"school"`
		Major           *string `json:"major"`
		StartDate       *string `json:"start_date"`
		EndDate         *string `json:"end_date"`
		Status          *string `json:"status"`
		SupervisorID    *int64  `json:"supervisor_id"`
		ClearSupervisor bool    `json:"clear_supervisor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid intern update payload."})
		return
	}

	profileIn := service.UpdateInternInput{
		School:           req.School,
		Major:            req.Major,
		SupervisorUserID: req.SupervisorID,
		ClearSupervisor:  req.ClearSupervisor,
	}

	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "start_date must be YYYY-MM-DD."})
			return
		}
		profileIn.StartDate = parsed
	}
	if req.EndDate != nil {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "end_date must be YYYY-MM-DD."})
			return
		}
		profileIn.EndDate = parsed
	}
	if req.Status != nil {
		status, ok := internshipStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Unknown internship status."})
			return
		}
		profileIn.Status = &status
	}

	view, err := h.Interns.Update(c.Request.Context(), id, req.toInput(), profileIn)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func internshipStatus(value string) (domain.InternshipStatus, bool) {
	switch domain.InternshipStatus(value) {
	case domain.InternshipPending, domain.InternshipActive, domain.InternshipCompleted, domain.InternshipTerminated:
		return domain.InternshipStatus(value), true
	}
	return "", false
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid id."})
		return 0, false
	}
	return id, true
}
