package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/distribution"
	"github.com/stemsi/exstem-console/internal/upstream"
	"github.com/stemsi/exstem-console/internal/wizard"
)

// Domain Errors
var (
	ErrNotSessionOwner = errors.New("wizard session belongs to another admin")
	ErrTierValue       = errors.New("exactly one of percent or count is required")
)

const insufficientBankFallback = "The question bank does not have enough questions for the requested mix."

// InsufficientBankError carries the bank's refusal, verbatim when it gave one.
type InsufficientBankError struct {
	Message string
}

func (e *InsufficientBankError) Error() string {
	if e.Message == "" {
		return insufficientBankFallback
	}
	return e.Message
}

// WizardStore persists in-flight sessions.
type WizardStore interface {
	Create(ctx context.Context, s *wizard.Session) error
	Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error)
	Update(ctx context.Context, s *wizard.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BankClient validates difficulty mixes and generates exams.
type BankClient interface {
	Preview(ctx context.Context, req upstream.PreviewRequest) (*upstream.PreviewResult, error)
	CreateFromBank(ctx context.Context, req upstream.GenerateRequest) (json.RawMessage, error)
}

// WizardView is a session with its derived totals.
type WizardView struct {
	Session *wizard.Session           `json:"session"`
	Totals  distribution.Totals       `json:"totals"`
	Percent *distribution.Percentages `json:"percentages,omitempty"`
}

// TierUpdate edits one tier either by percentage of the total or by count.
type TierUpdate struct {
	Percent *float64
	Count   *int
}

// WizardService drives exam generation sessions.
type WizardService struct {
	store WizardStore
	bank  BankClient
	loc   *time.Location
	now   func() time.Time
	log   zerolog.Logger
}

// NewWizardService creates a new WizardService. loc is the zone schedule dates
// are entered in and the offset start times are sent with.
func NewWizardService(store WizardStore, bank BankClient, loc *time.Location, log zerolog.Logger) *WizardService {
	return &WizardService{
		store: store,
		bank:  bank,
		loc:   loc,
		now:   time.Now,
		log:   log.With().Str("component", "wizard_service").Logger(),
	}
}

// Start opens a session for ownerID, seeded with total questions.
func (s *WizardService) Start(ctx context.Context, ownerID, total int) (*WizardView, error) {
	sess := wizard.NewSession(ownerID, s.now())
	if err := sess.SetTotal(total); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info().Str("session_id", sess.ID.String()).Int("owner_id", ownerID).Msg("Wizard started")
	return s.view(sess), nil
}

// Get returns a session.
func (s *WizardService) Get(ctx context.Context, id uuid.UUID, ownerID int) (*WizardView, error) {
	sess, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// SelectSubject picks the subject and topics.
func (s *WizardService) SelectSubject(ctx context.Context, id uuid.UUID, ownerID int, subject string, topics []string) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.SelectSubject(subject, topics)
	})
}

// SetTotal changes the total and reseeds the default split.
func (s *WizardService) SetTotal(ctx context.Context, id uuid.UUID, ownerID, total int) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.SetTotal(total)
	})
}

// SetTier edits one tier.
func (s *WizardService) SetTier(ctx context.Context, id uuid.UUID, ownerID int, tier distribution.Tier, upd TierUpdate) (*WizardView, error) {
	if (upd.Percent == nil) == (upd.Count == nil) {
		return nil, ErrTierValue
	}
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		if upd.Percent != nil {
			return sess.SetTierPercent(tier, *upd.Percent)
		}
		return sess.SetTierCount(tier, *upd.Count)
	})
}

// SetPoints replaces the per-tier points.
func (s *WizardService) SetPoints(ctx context.Context, id uuid.UUID, ownerID int, points distribution.Weights) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.SetPoints(points)
	})
}

// SetNegativeMarking toggles negative marking.
func (s *WizardService) SetNegativeMarking(ctx context.Context, id uuid.UUID, ownerID int, enabled bool, penalties distribution.Weights) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.SetNegativeMarking(enabled, penalties)
	})
}

// Preview validates the design locally, asks the bank whether it can be
// satisfied and moves the session to scheduling on success.
func (s *WizardService) Preview(ctx context.Context, id uuid.UUID, ownerID int) (*WizardView, error) {
	sess, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Step.Next(wizard.EventValidated); err != nil {
		return nil, err
	}

	pct, err := distribution.ValidateReadyForPreview(sess.Distribution, sess.HasSubject())
	if err != nil {
		return nil, err
	}

	res, err := s.bank.Preview(ctx, upstream.PreviewRequest{
		Subject:        sess.Subject,
		Topics:         sess.Topics,
		TotalQuestions: sess.Distribution.TotalQuestions,
		Difficulty:     pct,
	})
	if err != nil {
		return nil, fmt.Errorf("bank preview: %w", err)
	}
	if !res.Possible {
		s.log.Info().Str("session_id", id.String()).Str("reason", res.Error).Msg("Bank rejected difficulty mix")
		return nil, &InsufficientBankError{Message: res.Error}
	}

	if err := sess.Fire(wizard.EventValidated); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Back returns a scheduling session to the designing step.
func (s *WizardService) Back(ctx context.Context, id uuid.UUID, ownerID int) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.Fire(wizard.EventBack)
	})
}

// SetSchedule stores the scheduling metadata.
func (s *WizardService) SetSchedule(ctx context.Context, id uuid.UUID, ownerID int, meta wizard.Schedule) (*WizardView, error) {
	return s.mutate(ctx, id, ownerID, func(sess *wizard.Session) error {
		return sess.SetSchedule(meta)
	})
}

// Submit creates the exam from the bank. On success the session is completed
// and disposed of; the created exam is returned as the backend sent it.
func (s *WizardService) Submit(ctx context.Context, id uuid.UUID, ownerID int) (json.RawMessage, error) {
	sess, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Step.Next(wizard.EventSubmitted); err != nil {
		return nil, err
	}
	if err := sess.Schedule.Validate(s.loc); err != nil {
		return nil, err
	}
	start, err := sess.Schedule.StartsAt(s.loc)
	if err != nil {
		return nil, err
	}
	pct, err := distribution.ValidateReadyForPreview(sess.Distribution, sess.HasSubject())
	if err != nil {
		return nil, err
	}

	created, err := s.bank.CreateFromBank(ctx, upstream.GenerateRequest{
		Subject:               sess.Subject,
		Topics:                sess.Topics,
		TotalQuestions:        sess.Distribution.TotalQuestions,
		Difficulty:            pct,
		PointsConfig:          sess.Points,
		EnableNegativeMarking: sess.NegativeMarking,
		NegativeConfig:        sess.Negative,
		Title:                 sess.Schedule.Title,
		Description:           sess.Schedule.Description,
		DurationMinutes:       sess.Schedule.DurationMinutes,
		PassingScore:          sess.Schedule.PassingScore,
		StartTime:             start.Format(wizard.StartTimeLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	if err := sess.Fire(wizard.EventSubmitted); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", id.String()).Msg("Failed to dispose completed wizard")
	}

	s.log.Info().
		Str("session_id", id.String()).
		Str("subject", sess.Subject).
		Int("total_questions", sess.Distribution.TotalQuestions).
		Msg("Exam generated from bank")
	return created, nil
}

// Cancel discards a session.
func (s *WizardService) Cancel(ctx context.Context, id uuid.UUID, ownerID int) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *WizardService) load(ctx context.Context, id uuid.UUID, ownerID int) (*wizard.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != ownerID {
		return nil, ErrNotSessionOwner
	}
	return sess, nil
}

func (s *WizardService) save(ctx context.Context, sess *wizard.Session) error {
	sess.UpdatedAt = s.now()
	return s.store.Update(ctx, sess)
}

func (s *WizardService) mutate(ctx context.Context, id uuid.UUID, ownerID int, fn func(*wizard.Session) error) (*WizardView, error) {
	sess, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *WizardService) view(sess *wizard.Session) *WizardView {
	v := &WizardView{Session: sess, Totals: sess.Totals()}
	if pct, err := distribution.ToPercentPayload(sess.Distribution.Counts, sess.Distribution.TotalQuestions); err == nil {
		v.Percent = &pct
	}
	return v
}
