package model

import "time"

// Exam is an exam record as served by the upstream exam backend.
type Exam struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	PassingScore    float64    `json:"passing_score"`
	IsActive        bool       `json:"is_active"`
}

// ExamView decorates an exam with its schedule classification for the console.
type ExamView struct {
	Exam
	EndTime *time.Time `json:"end_time,omitempty"`
	Status  string     `json:"status"`
}

// ExamListResult is returned by the exam listing endpoint: the requested tab
// plus badge counts for every tab.
type ExamListResult struct {
	Category string         `json:"category"`
	Exams    []ExamView     `json:"exams"`
	Counts   map[string]int `json:"counts"`
}

// CalendarDay groups the exams starting on one local date.
type CalendarDay struct {
	Date  string     `json:"date"`
	Exams []ExamView `json:"exams"`
}

// CalendarMonth is the calendar view for one month.
type CalendarMonth struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}
