package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/export"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/schedule"
)

var ErrInvalidMonth = errors.New("month must be formatted YYYY-MM")

// ExamSource is the upstream view of exams.
type ExamSource interface {
	ListExams(ctx context.Context) ([]model.Exam, error)
	DeleteExam(ctx context.Context, id int) error
}

// BoardSnapshot is pushed to live board subscribers.
type BoardSnapshot struct {
	At     time.Time        `json:"at"`
	Counts map[string]int   `json:"counts"`
	Live   []model.ExamView `json:"live"`
}

// ExamService classifies upstream exams for the list, calendar, export and board views.
type ExamService struct {
	source ExamSource
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

// NewExamService creates a new ExamService. loc is the zone calendar days and
// exported times are rendered in.
func NewExamService(source ExamSource, loc *time.Location, log zerolog.Logger) *ExamService {
	return &ExamService{
		source: source,
		loc:    loc,
		now:    time.Now,
		log:    log.With().Str("component", "exam_service").Logger(),
	}
}

// List returns the exams in category plus the count of every category.
func (s *ExamService) List(ctx context.Context, category schedule.Category) (*model.ExamListResult, error) {
	exams, err := s.source.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	now := s.now()

	return &model.ExamListResult{
		Category: string(category),
		Exams:    views(schedule.Filter(exams, category, now), now),
		Counts:   countsByName(schedule.CountAll(exams, now)),
	}, nil
}

// Delete removes an exam upstream.
func (s *ExamService) Delete(ctx context.Context, id int) error {
	if err := s.source.DeleteExam(ctx, id); err != nil {
		return fmt.Errorf("delete exam %d: %w", id, err)
	}
	s.log.Info().Int("exam_id", id).Msg("Exam deleted")
	return nil
}

// Calendar groups the scheduled exams of month ("YYYY-MM") by local start date.
// Unscheduled exams have no place on a calendar and are left out.
func (s *ExamService) Calendar(ctx context.Context, month string) (*model.CalendarMonth, error) {
	first, err := time.ParseInLocation("2006-01", month, s.loc)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	next := first.AddDate(0, 1, 0)

	exams, err := s.source.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	now := s.now()

	inMonth := make([]model.Exam, 0, len(exams))
	for _, e := range exams {
		if e.StartTime == nil {
			continue
		}
		local := e.StartTime.In(s.loc)
		if local.Before(first) || !local.Before(next) {
			continue
		}
		inMonth = append(inMonth, e)
	}
	sort.SliceStable(inMonth, func(i, j int) bool {
		return inMonth[i].StartTime.Before(*inMonth[j].StartTime)
	})

	cal := &model.CalendarMonth{Month: first.Format("2006-01"), Days: []model.CalendarDay{}}
	for _, e := range inMonth {
		date := e.StartTime.In(s.loc).Format("2006-01-02")
		if n := len(cal.Days); n == 0 || cal.Days[n-1].Date != date {
			cal.Days = append(cal.Days, model.CalendarDay{Date: date})
		}
		day := &cal.Days[len(cal.Days)-1]
		day.Exams = append(day.Exams, schedule.View(e, now))
	}
	return cal, nil
}

// Export renders the exams in category as an XLSX workbook.
func (s *ExamService) Export(ctx context.Context, category schedule.Category) ([]byte, error) {
	res, err := s.List(ctx, category)
	if err != nil {
		return nil, err
	}
	raw, err := export.ExamsXLSX(res.Exams, s.loc)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}
	s.log.Debug().Str("category", string(category)).Int("rows", len(res.Exams)).Msg("Exam export rendered")
	return raw, nil
}

// Board builds a live board snapshot: every count plus the exams running now.
func (s *ExamService) Board(ctx context.Context) (*BoardSnapshot, error) {
	exams, err := s.source.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	now := s.now()
	return &BoardSnapshot{
		At:     now,
		Counts: countsByName(schedule.CountAll(exams, now)),
		Live:   views(schedule.Filter(exams, schedule.CategoryLive, now), now),
	}, nil
}

func views(exams []model.Exam, now time.Time) []model.ExamView {
	out := make([]model.ExamView, len(exams))
	for i, e := range exams {
		out[i] = schedule.View(e, now)
	}
	return out
}

func countsByName(counts map[schedule.Category]int) map[string]int {
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	return out
}
