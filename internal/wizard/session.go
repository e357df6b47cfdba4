// Package wizard models the two-step exam generation flow: designing the
// question mix, then scheduling the exam. A Session lives only for the
// duration of one creation flow.
package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-console/internal/distribution"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrNegativeValue   = errors.New("value must not be negative")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	// StartTimeLayout renders an exam start as an ISO timestamp with a numeric offset.
	StartTimeLayout = "2006-01-02T15:04:05-07:00"
)

// Schedule is the metadata entered on the scheduling step.
type Schedule struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"duration_minutes"`
	PassingScore    float64 `json:"passing_score"`
}

// StartsAt combines Date and Time in loc.
func (s Schedule) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout+" "+timeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date/time: %v", ErrInvalidSchedule, err)
	}
	return day, nil
}

// Validate checks the fields required to create an exam.
func (s Schedule) Validate(loc *time.Location) error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSchedule)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSchedule)
	}
	if s.PassingScore < 0 || s.PassingScore > 100 {
		return fmt.Errorf("%w: passing score must be between 0 and 100", ErrInvalidSchedule)
	}
	_, err := s.StartsAt(loc)
	return err
}

// Session is an in-flight exam generation wizard.
type Session struct {
	ID              uuid.UUID            `json:"id"`
	OwnerID         int                  `json:"owner_id"`
	Step            Step                 `json:"step"`
	Subject         string               `json:"subject"`
	Topics          []string             `json:"topics"`
	Distribution    distribution.Config  `json:"distribution"`
	Points          distribution.Weights `json:"points"`
	NegativeMarking bool                 `json:"enable_negative_marking"`
	Negative        distribution.Weights `json:"negative"`
	Schedule        Schedule             `json:"schedule"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewSession starts a session in the designing step with one point per question.
func NewSession(ownerID int, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Step:      StepDesigning,
		Topics:    []string{},
		Points:    distribution.Weights{Easy: 1, Medium: 1, Hard: 1},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) require(step Step) error {
	if s.Step != step {
		return fmt.Errorf("%w: session is %s, needs %s", ErrInvalidTransition, s.Step, step)
	}
	return nil
}

// SelectSubject picks the subject and topics to draw questions from.
func (s *Session) SelectSubject(subject string, topics []string) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	s.Subject = strings.TrimSpace(subject)
	if topics == nil {
		topics = []string{}
	}
	s.Topics = topics
	return nil
}

// HasSubject reports whether a subject was chosen.
func (s *Session) HasSubject() bool {
	return s.Subject != ""
}

// SetTotal sets the total question count and reseeds the tier split.
func (s *Session) SetTotal(total int) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	if total < 0 {
		return ErrNegativeValue
	}
	s.Distribution.SetTotal(total)
	return nil
}

// SetTierPercent sets one tier from a percentage of the total.
func (s *Session) SetTierPercent(t distribution.Tier, percent float64) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	if percent < 0 {
		return ErrNegativeValue
	}
	return s.Distribution.SetTierByPercent(t, percent)
}

// SetTierCount sets one tier's question count.
func (s *Session) SetTierCount(t distribution.Tier, n int) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	if n < 0 {
		return ErrNegativeValue
	}
	return s.Distribution.SetTierByCount(t, n)
}

// SetPoints replaces the per-tier points.
func (s *Session) SetPoints(w distribution.Weights) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	s.Points = w
	return nil
}

// SetNegativeMarking toggles negative marking and its per-tier penalties.
func (s *Session) SetNegativeMarking(enabled bool, w distribution.Weights) error {
	if err := s.require(StepDesigning); err != nil {
		return err
	}
	s.NegativeMarking = enabled
	s.Negative = w
	return nil
}

// SetSchedule stores the scheduling metadata; it is validated on submit.
func (s *Session) SetSchedule(meta Schedule) error {
	if err := s.require(StepScheduling); err != nil {
		return err
	}
	s.Schedule = meta
	return nil
}

// Fire applies ev to the session step.
func (s *Session) Fire(ev Event) error {
	next, err := s.Step.Next(ev)
	if err != nil {
		return err
	}
	s.Step = next
	return nil
}

// Totals returns the selected count and total marks for display.
func (s *Session) Totals() distribution.Totals {
	return distribution.CurrentTotals(s.Distribution.Counts, s.Points)
}
