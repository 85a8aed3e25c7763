package repository

import (
	"synomind-gateway/internal/domain/model"
)

// SessionRegistry is the port for the concurrent training-session store.
//
// Create is atomic: no two concurrent calls receive the same id. Get and
// List return snapshots (deep copies), never live references, so readers
// cannot observe a partially-written record. Update is the single
// mutation entry point; the owning orchestrator goroutine is the only
// caller for a given session id.
type SessionRegistry interface {
	Create(cfg model.TrainingConfig) *model.TrainingSession
	Get(id string) (*model.TrainingSession, error)
	List() []*model.TrainingSession
	Update(id string, fn func(*model.TrainingSession)) error
}
