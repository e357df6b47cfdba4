package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/distribution"
	"github.com/stemsi/exstem-console/internal/middleware"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/service"
	"github.com/stemsi/exstem-console/internal/validator"
	"github.com/stemsi/exstem-console/internal/wizard"
)

// WizardHandler drives the generate-from-bank wizard.
type WizardHandler struct {
	wizardService *service.WizardService
	log           zerolog.Logger
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizardService *service.WizardService, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
		log:           log.With().Str("component", "wizard_handler").Logger(),
	}
}

type wizardOp func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error)

// StartWizard godoc
// POST /api/v1/admin/wizard
func (h *WizardHandler) StartWizard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartWizardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.wizardService.Start(c.Request.Context(), claims.UserID, *req.TotalQuestions)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// GetWizard godoc
// GET /api/v1/admin/wizard/:id
func (h *WizardHandler) GetWizard(c *gin.Context) {
	h.run(c, h.wizardService.Get)
}

// CancelWizard godoc
// DELETE /api/v1/admin/wizard/:id
// Discards the session. A preview or submit still in flight has its result dropped.
func (h *WizardHandler) CancelWizard(c *gin.Context) {
	ownerID, id, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.wizardService.Cancel(c.Request.Context(), id, ownerID); err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "wizard cancelled"})
}

// SelectSubject godoc
// PUT /api/v1/admin/wizard/:id/subject
func (h *WizardHandler) SelectSubject(c *gin.Context) {
	var req model.SelectSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SelectSubject(ctx, id, ownerID, req.Subject, req.Topics)
	})
}

// SetTotal godoc
// PUT /api/v1/admin/wizard/:id/total
// Changing the total resets the tiers to the default 40/40/20 split.
func (h *WizardHandler) SetTotal(c *gin.Context) {
	var req model.SetTotalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SetTotal(ctx, id, ownerID, *req.TotalQuestions)
	})
}

// SetTier godoc
// PUT /api/v1/admin/wizard/:id/tiers/:tier
// Body carries either {"percent": n} or {"count": n}.
func (h *WizardHandler) SetTier(c *gin.Context) {
	tier, err := distribution.ParseTier(c.Param("tier"))
	if err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
		return
	}

	var req model.SetTierRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SetTier(ctx, id, ownerID, tier, service.TierUpdate{Percent: req.Percent, Count: req.Count})
	})
}

// SetPoints godoc
// PUT /api/v1/admin/wizard/:id/points
func (h *WizardHandler) SetPoints(c *gin.Context) {
	var req model.SetPointsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	points := distribution.Weights{Easy: req.Easy, Medium: req.Medium, Hard: req.Hard}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SetPoints(ctx, id, ownerID, points)
	})
}

// SetNegativeMarking godoc
// PUT /api/v1/admin/wizard/:id/negative-marking
func (h *WizardHandler) SetNegativeMarking(c *gin.Context) {
	var req model.NegativeMarkingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	penalties := distribution.Weights{Easy: req.Easy, Medium: req.Medium, Hard: req.Hard}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SetNegativeMarking(ctx, id, ownerID, *req.Enabled, penalties)
	})
}

// Preview godoc
// POST /api/v1/admin/wizard/:id/preview
// Validates the mix locally and against the question bank, then moves to scheduling.
func (h *WizardHandler) Preview(c *gin.Context) {
	h.run(c, h.wizardService.Preview)
}

// Back godoc
// POST /api/v1/admin/wizard/:id/back
func (h *WizardHandler) Back(c *gin.Context) {
	h.run(c, h.wizardService.Back)
}

// SetSchedule godoc
// PUT /api/v1/admin/wizard/:id/schedule
func (h *WizardHandler) SetSchedule(c *gin.Context) {
	var req model.ScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	meta := wizard.Schedule{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
	}
	h.run(c, func(ctx context.Context, id uuid.UUID, ownerID int) (*service.WizardView, error) {
		return h.wizardService.SetSchedule(ctx, id, ownerID, meta)
	})
}

// Submit godoc
// POST /api/v1/admin/wizard/:id/submit
// Creates the exam from the bank and closes the session.
func (h *WizardHandler) Submit(c *gin.Context) {
	ownerID, id, ok := h.target(c)
	if !ok {
		return
	}

	created, err := h.wizardService.Submit(c.Request.Context(), id, ownerID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": created})
}

func (h *WizardHandler) run(c *gin.Context, op wizardOp) {
	ownerID, id, ok := h.target(c)
	if !ok {
		return
	}

	view, err := op(c.Request.Context(), id, ownerID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// target resolves the caller and the session id, writing the failure itself.
func (h *WizardHandler) target(c *gin.Context) (int, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return 0, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, uuid.Nil, false
	}
	return claims.UserID, id, true
}
