package store

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRecord is returned when a session record fails validation
// before it is written.
var ErrInvalidRecord = errors.New("invalid session record")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match (empty = any)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Score sources recorded on a session.
const (
	ScoreSourceVision   = "vision"
	ScoreSourceFallback = "fallback"
)

// SessionRecord is the durable result of one finalized practice attempt.
// Records are immutable once appended.
type SessionRecord struct {
	ID              string    `json:"id"`
	Sequence        int64     `json:"sequence"`
	UserID          string    `json:"userId"`
	Language        string    `json:"language"`
	Character       string    `json:"character"`
	Level           string    `json:"level"`
	Score           int       `json:"score"`
	ScoreSource     string    `json:"scoreSource"`
	Model           string    `json:"model,omitempty"`
	CreatedAt       time.Time `json:"timestamp"`
	DurationSeconds int       `json:"duration"`
	Attempts        int       `json:"attempts"`
}

// Validate checks the invariants every stored record must satisfy.
func (r *SessionRecord) Validate() error {
	switch {
	case r.ID == "":
		return errors.Join(ErrInvalidRecord, errors.New("empty id"))
	case r.UserID == "":
		return errors.Join(ErrInvalidRecord, errors.New("empty user id"))
	case r.Score < 0 || r.Score > 100:
		return errors.Join(ErrInvalidRecord, errors.New("score out of range 0-100"))
	case r.DurationSeconds < 0:
		return errors.Join(ErrInvalidRecord, errors.New("negative duration"))
	case r.Attempts < 1:
		return errors.Join(ErrInvalidRecord, errors.New("attempts must be at least 1"))
	}
	return nil
}

// SessionRepo is the per-user append/list store for practice sessions.
type SessionRepo interface {
	// Append validates and stores a new record, assigning its sequence.
	Append(ctx context.Context, rec *SessionRecord) error

	// List returns all records of a user in append order.
	List(ctx context.Context, userID string) ([]SessionRecord, error)

	// ClearUser deletes every record of a user and returns how many were removed.
	ClearUser(ctx context.Context, userID string) (int64, error)
}

// KVRepo is a small string key-value store for credentials and settings.
type KVRepo interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, name string) (string, bool, error)

	// Set creates or replaces the value.
	Set(ctx context.Context, name, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, name string) error
}
