package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/distribution"
	"github.com/stemsi/exstem-console/internal/repository"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/service"
	"github.com/stemsi/exstem-console/internal/upstream"
	"github.com/stemsi/exstem-console/internal/wizard"
)

// failFromError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as internal.
func failFromError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		mismatch     *distribution.CountMismatchError
		insufficient *service.InsufficientBankError
	)

	switch {
	case errors.As(err, &mismatch):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrCountMismatch, map[string]string{
			"selected": strconv.Itoa(mismatch.Selected),
			"required": strconv.Itoa(mismatch.Required),
			"detail":   mismatch.Error(),
		})
	case errors.Is(err, distribution.ErrMissingSubject):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrMissingSubject)
	case errors.Is(err, distribution.ErrZeroTotal):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrZeroTotal)
	case errors.As(err, &insufficient):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrInsufficientBank, insufficient.Error())
	case errors.Is(err, wizard.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidStep)
	case errors.Is(err, wizard.ErrInvalidSchedule):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrInvalidSchedule, err.Error())
	case errors.Is(err, wizard.ErrNegativeValue),
		errors.Is(err, distribution.ErrUnknownTier),
		errors.Is(err, service.ErrTierValue):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	// Sessions of other admins are reported as missing.
	case errors.Is(err, repository.ErrWizardNotFound), errors.Is(err, service.ErrNotSessionOwner):
		response.Fail(c, http.StatusNotFound, response.ErrWizardNotFound)
	case errors.Is(err, upstream.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, upstream.ErrUnavailable):
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamUnavailable)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
