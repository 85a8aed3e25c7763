package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/model"
	"synomind-gateway/internal/domain/ports/repository"
)

var _ repository.SessionRegistry = (*SessionRegistry)(nil)

// SessionRegistry is the in-memory training-session store: one writer per
// session (the owning orchestrator, through Update) and many readers
// (status queries, through Get/List). Readers always receive deep-copied
// snapshots taken under the lock, so a partially-applied Update is never
// observable.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*model.TrainingSession
}

func New() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*model.TrainingSession)}
}

// Create allocates a session with a fresh id and stores it atomically.
// ULIDs are timestamp-derived with monotonic entropy, so concurrent
// creates cannot collide within the process lifetime.
func (r *SessionRegistry) Create(cfg model.TrainingConfig) *model.TrainingSession {
	s := &model.TrainingSession{
		ID:            "training_" + ulid.Make().String(),
		Status:        model.TrainingStatusQueued,
		Progress:      0,
		Modules:       append([]string(nil), cfg.Modules...),
		DataSources:   append([]string(nil), cfg.DataSources...),
		TrainingMode:  cfg.TrainingMode,
		Logs:          []model.LogEntry{},
		ModelsTrained: []model.TrainedModel{},
		StartTime:     time.Now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s.Clone()
}

func (r *SessionRegistry) Get(id string) (*model.TrainingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// List returns snapshots ordered by start time (oldest first), then id.
func (r *SessionRegistry) List() []*model.TrainingSession {
	r.mu.RLock()
	out := make([]*model.TrainingSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Update applies fn to the live record under the registry lock. fn must
// not block; it is the single mutation path for a session.
func (r *SessionRegistry) Update(id string, fn func(*model.TrainingSession)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	fn(s)
	return nil
}
