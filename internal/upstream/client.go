// Package upstream is the client for the exam REST backend that owns exams,
// the question bank and exam generation.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/distribution"
	"github.com/stemsi/exstem-console/internal/model"
)

var (
	// ErrUnavailable wraps every transport failure and unexpected upstream reply.
	ErrUnavailable = errors.New("upstream unavailable")
	ErrNotFound    = errors.New("upstream resource not found")
)

// Error describes a failed upstream call.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrUnavailable
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token; it is forwarded on every call
// made with the returned context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token attached by WithToken, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// PreviewRequest asks the bank whether a difficulty mix can be satisfied.
type PreviewRequest struct {
	Subject        string                   `json:"subject"`
	Topics         []string                 `json:"topics"`
	TotalQuestions int                      `json:"total_questions"`
	Difficulty     distribution.Percentages `json:"difficulty"`
}

// PreviewResult is the bank validation verdict.
type PreviewResult struct {
	Possible bool   `json:"possible"`
	Error    string `json:"error,omitempty"`
}

// GenerateRequest creates an exam from the question bank.
type GenerateRequest struct {
	Subject               string                   `json:"subject"`
	Topics                []string                 `json:"topics"`
	TotalQuestions        int                      `json:"total_questions"`
	Difficulty            distribution.Percentages `json:"difficulty"`
	PointsConfig          distribution.Weights     `json:"points_config"`
	EnableNegativeMarking bool                     `json:"enable_negative_marking"`
	NegativeConfig        distribution.Weights     `json:"negative_config"`
	Title                 string                   `json:"title"`
	Description           string                   `json:"description"`
	DurationMinutes       int                      `json:"duration_minutes"`
	PassingScore          float64                  `json:"passing_score"`
	StartTime             string                   `json:"start_time"`
}

// Client talks to the exam backend. Calls are one-shot: no retries.
type Client struct {
	baseURL string
	http    *http.Client
	loc     *time.Location
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLocation sets the zone used for start times that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		loc:     time.UTC,
		log:     log.With().Str("component", "upstream_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireExam mirrors model.Exam with a raw start time so naive timestamps can be
// interpreted in the exam zone.
type wireExam struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	StartTime       *string `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	PassingScore    float64 `json:"passing_score"`
	IsActive        bool    `json:"is_active"`
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseStartTime accepts RFC 3339 or an offset-less timestamp read in loc.
func ParseStartTime(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised start_time %q", raw)
}

// ListExams fetches every exam.
func (c *Client) ListExams(ctx context.Context) ([]model.Exam, error) {
	var wire []wireExam
	if err := c.do(ctx, "list exams", http.MethodGet, "/admin/exams", nil, &wire); err != nil {
		return nil, err
	}
	return toExams(wire, c.loc, c.log), nil
}

// DecodeExams reads an exam list in the backend's wire format, such as a
// saved GET /admin/exams response.
func DecodeExams(r io.Reader, loc *time.Location, log zerolog.Logger) ([]model.Exam, error) {
	var wire []wireExam
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	return toExams(wire, loc, log), nil
}

func toExams(wire []wireExam, loc *time.Location, log zerolog.Logger) []model.Exam {
	exams := make([]model.Exam, 0, len(wire))
	for _, w := range wire {
		e := model.Exam{
			ID:              w.ID,
			Title:           w.Title,
			Description:     w.Description,
			DurationMinutes: w.DurationMinutes,
			PassingScore:    w.PassingScore,
			IsActive:        w.IsActive,
		}
		if w.StartTime != nil && *w.StartTime != "" {
			start, err := ParseStartTime(*w.StartTime, loc)
			if err != nil {
				// Listed as unscheduled rather than dropping the whole list.
				log.Warn().Err(err).Int("exam_id", w.ID).Msg("Ignoring unparseable start time")
			} else {
				e.StartTime = &start
			}
		}
		exams = append(exams, e)
	}
	return exams
}

// DeleteExam removes an exam.
func (c *Client) DeleteExam(ctx context.Context, id int) error {
	return c.do(ctx, "delete exam", http.MethodDelete, "/admin/exams/"+strconv.Itoa(id), nil, nil)
}

// ListSubjects fetches the subjects available for generation.
func (c *Client) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := c.do(ctx, "list subjects", http.MethodGet, "/admin/bank/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// Preview asks the bank whether req can be satisfied.
func (c *Client) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	var res PreviewResult
	if err := c.do(ctx, "preview exam", http.MethodPost, "/admin/exams/preview", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateFromBank generates an exam. The created exam is returned as raw JSON;
// the console relays it without interpretation.
func (c *Client) CreateFromBank(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	var created json.RawMessage
	if err := c.do(ctx, "create exam", http.MethodPost, "/admin/exams/from-bank", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("Upstream request failed")
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Upstream call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		c.log.Error().Str("op", op).Int("status", resp.StatusCode).Str("message", msg).Msg("Upstream rejected request")
		return &Error{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readErrorMessage extracts a human message from common error bodies
// ({"detail": ...}, {"error": ...}, {"message": ...}) or falls back to the text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body map[string]interface{}
	if json.Unmarshal(raw, &body) == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
