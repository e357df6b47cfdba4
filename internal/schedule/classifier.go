// Package schedule classifies exams against their scheduling window and
// answers the tab filters and badge counts of the exam list.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/exstem-console/internal/model"
)

// Status is the classification of a single exam relative to a point in time.
type Status string

const (
	StatusLive        Status = "live"
	StatusUpcoming    Status = "upcoming"
	StatusCompleted   Status = "completed"
	StatusUnscheduled Status = "unscheduled"
)

// Category is a list tab. CategoryAll is a pseudo-category matching every exam.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryLive      Category = "live"
	CategoryUpcoming  Category = "upcoming"
	CategoryCompleted Category = "completed"
)

// Categories lists the tabs in display order.
var Categories = []Category{CategoryAll, CategoryLive, CategoryUpcoming, CategoryCompleted}

// ParseCategory maps a query value onto a Category. Empty means CategoryAll.
func ParseCategory(raw string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case "":
		return CategoryAll, nil
	case CategoryAll, CategoryLive, CategoryUpcoming, CategoryCompleted:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}

// Window is the inclusive live interval [Start, End] of a scheduled exam.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowOf derives the window of an exam. ok is false for unscheduled exams.
func WindowOf(e model.Exam) (w Window, ok bool) {
	if e.StartTime == nil {
		return Window{}, false
	}
	start := *e.StartTime
	return Window{
		Start: start,
		End:   start.Add(time.Duration(e.DurationMinutes) * time.Minute),
	}, true
}

// Classify returns the status of e at now. Both window boundaries count as live.
// A non-positive duration leaves End at or before Start, so such an exam is
// never live after its start instant.
func Classify(e model.Exam, now time.Time) Status {
	w, ok := WindowOf(e)
	if !ok {
		return StatusUnscheduled
	}
	switch {
	case w.Start.After(now):
		return StatusUpcoming
	case now.After(w.End):
		return StatusCompleted
	default:
		return StatusLive
	}
}

// Matches reports whether an exam with status s belongs to tab c.
// Unscheduled exams are listed under the upcoming tab as well as all.
func Matches(s Status, c Category) bool {
	switch c {
	case CategoryAll:
		return true
	case CategoryUpcoming:
		return s == StatusUpcoming || s == StatusUnscheduled
	case CategoryLive:
		return s == StatusLive
	case CategoryCompleted:
		return s == StatusCompleted
	default:
		return false
	}
}

// Filter returns the exams in tab c at now, preserving their relative order.
func Filter(exams []model.Exam, c Category, now time.Time) []model.Exam {
	out := make([]model.Exam, 0, len(exams))
	for _, e := range exams {
		if Matches(Classify(e, now), c) {
			out = append(out, e)
		}
	}
	return out
}

// Count is the number of exams Filter would return.
func Count(exams []model.Exam, c Category, now time.Time) int {
	return len(Filter(exams, c, now))
}

// CountAll returns the badge count of every tab.
func CountAll(exams []model.Exam, now time.Time) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = Count(exams, c, now)
	}
	return counts
}

// View decorates e with its end time and status at now.
func View(e model.Exam, now time.Time) model.ExamView {
	v := model.ExamView{Exam: e, Status: string(Classify(e, now))}
	if w, ok := WindowOf(e); ok {
		end := w.End
		v.EndTime = &end
	}
	return v
}
