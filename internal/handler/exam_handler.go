package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/schedule"
	"github.com/stemsi/exstem-console/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExamHandler handles exam list, calendar, export and delete endpoints.
type ExamHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/admin/exams?category=live&page=1&per_page=20
// Lists exams in a category with the count of every category. Without page
// the whole category is returned.
func (h *ExamHandler) ListExams(c *gin.Context) {
	category, err := schedule.ParseCategory(c.Query("category"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCategory)
		return
	}

	res, err := h.examService.List(c.Request.Context(), category)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	if c.Query("page") == "" {
		response.Success(c, http.StatusOK, res)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	var pagination *response.Pagination
	res.Exams, pagination = paginate(res.Exams, page, perPage)
	response.SuccessWithPagination(c, http.StatusOK, res, pagination)
}

// Calendar godoc
// GET /api/v1/admin/exams/calendar?month=2025-03
// Groups scheduled exams by start date. Defaults to the current month.
func (h *ExamHandler) Calendar(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().Format("2006-01"))

	cal, err := h.examService.Calendar(c.Request.Context(), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidMonth)
			return
		}
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, cal)
}

// ExportExams godoc
// GET /api/v1/admin/exams/export?category=completed
// Downloads the exams of a category as an XLSX workbook.
func (h *ExamHandler) ExportExams(c *gin.Context) {
	category, err := schedule.ParseCategory(c.Query("category"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCategory)
		return
	}

	raw, err := h.examService.Export(c.Request.Context(), category)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("exams-%s-%s.xlsx", category, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, raw)
}

// DeleteExam godoc
// DELETE /api/v1/admin/exams/:id
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "exam deleted"})
}

func paginate(exams []model.ExamView, page, perPage int) ([]model.ExamView, *response.Pagination) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	total := len(exams)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return exams[start:end], &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}
}
