package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/wizard"
)

// ErrWizardNotFound is returned for expired, cancelled or completed sessions.
var ErrWizardNotFound = errors.New("wizard session not found")

// WizardRepository keeps in-flight wizard sessions in Redis with a sliding TTL.
type WizardRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWizardRepository creates a new WizardRepository.
func NewWizardRepository(rdb *redis.Client, ttl time.Duration) *WizardRepository {
	return &WizardRepository{rdb: rdb, ttl: ttl}
}

// Create stores a new session. It fails if the id is already taken.
func (r *WizardRepository) Create(ctx context.Context, s *wizard.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, config.CacheKey.WizardSessionKey(s.ID.String()), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	return nil
}

// Get loads a session.
func (r *WizardRepository) Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.WizardSessionKey(id.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrWizardNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s wizard.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Update overwrites an existing session and refreshes its TTL. A session
// deleted in the meantime stays deleted and ErrWizardNotFound is returned.
func (r *WizardRepository) Update(ctx context.Context, s *wizard.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := r.rdb.SetXX(ctx, config.CacheKey.WizardSessionKey(s.ID.String()), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !ok {
		return ErrWizardNotFound
	}
	return nil
}

// Delete disposes of a session. Deleting a missing session is not an error.
func (r *WizardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rdb.Del(ctx, config.CacheKey.WizardSessionKey(id.String())).Err()
}
