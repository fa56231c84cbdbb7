package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

// PreparationService is the application seam behind the preparation
// endpoints.
type PreparationService interface {
	Submit(ctx context.Context, rawID string, ph float64) (*structure.PreparationJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*structure.PreparationJob, error)
	ListJobs(ctx context.Context, rawID string) ([]*structure.PreparationJob, error)
}

// PreparationHandler serves preparation job submission and inspection.
type PreparationHandler struct {
	service   PreparationService
	defaultPH float64
}

// NewPreparationHandler builds the handler. defaultPH applies when a
// request omits the pH.
func NewPreparationHandler(service PreparationService, defaultPH float64) *PreparationHandler {
	return &PreparationHandler{service: service, defaultPH: defaultPH}
}

type submitRequest struct {
	PDBID string   `json:"pdb_id" binding:"required"`
	PH    *float64 `json:"ph"`
}

// Submit handles POST /api/v1/preparations: it records a pending job,
// enqueues it for a worker, and replies 202 with the job.
func (h *PreparationHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errors.InvalidParam("request body must carry a pdb_id"))
		return
	}

	ph := h.defaultPH
	if req.PH != nil {
		ph = *req.PH
	}

	job, err := h.service.Submit(c.Request.Context(), req.PDBID, ph)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusAccepted, job)
}

// Get handles GET /api/v1/preparations/:id.
func (h *PreparationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, errors.InvalidParam("preparation id must be a UUID"))
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, job)
}

// ListForStructure handles GET /api/v1/structures/:id/preparations.
func (h *PreparationHandler) ListForStructure(c *gin.Context) {
	jobs, err := h.service.ListJobs(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, jobs)
}
