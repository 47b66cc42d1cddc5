package handler

import (
	"net/http"

	"petcircle_backend/internal/rehoming/service"
	"petcircle_backend/internal/rehoming/transport"
	"petcircle_backend/platform/httpkit"
	"petcircle_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for rehoming interventions
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new rehoming handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the intervention routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/active", h.GetActive)
	rg.POST("/:id/proceed", h.Proceed)
}

// Create handles POST /api/v1/rehoming/interventions. A fresh record answers
// 201; a submission that collides with an existing active record answers 200
// with that record.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, created, err := h.svc.Create(c.Request.Context(), identity.UserID(), identity.Email(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	if created {
		httpkit.Created(c, resp)
		return
	}
	httpkit.OK(c, resp)
}

// GetActive handles GET /api/v1/rehoming/interventions/active?subjectId=
func (h *Handler) GetActive(c *gin.Context) {
	var req transport.GetActiveInterventionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.GetActive(c.Request.Context(), identity.UserID(), req.SubjectID)
	if httpkit.HandleError(c, err) {
		return
	}
	if resp == nil {
		httpkit.Error(c, http.StatusNotFound, "no active intervention", nil)
		return
	}

	httpkit.OK(c, resp)
}

// Proceed handles POST /api/v1/rehoming/interventions/:id/proceed
func (h *Handler) Proceed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid intervention id", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.Proceed(c.Request.Context(), identity.UserID(), identity.Email(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
