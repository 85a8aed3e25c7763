// File: internal/infra/web/mock_test.go
package web

import (
	"context"

	"github.com/rs/zerolog"

	"synomind-gateway/internal/domain/model"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// stubRouter returns a canned result and records the last call.
type stubRouter struct {
	res *model.RouteResult
	err error

	gotText string
	gotRole string
	gotCtx  model.RequestContext
}

func (s *stubRouter) Route(_ context.Context, text, role string, reqCtx model.RequestContext) (*model.RouteResult, error) {
	s.gotText = text
	s.gotRole = role
	s.gotCtx = reqCtx
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

// stubTraining returns canned sessions and records the last Start config.
type stubTraining struct {
	startID  string
	startErr error
	session  *model.TrainingSession
	getErr   error
	sessions []*model.TrainingSession

	gotCfg model.TrainingConfig
	gotID  string
}

func (s *stubTraining) Start(cfg model.TrainingConfig) (string, error) {
	s.gotCfg = cfg
	if s.startErr != nil {
		return "", s.startErr
	}
	return s.startID, nil
}

func (s *stubTraining) GetStatus(id string) (*model.TrainingSession, error) {
	s.gotID = id
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.session, nil
}

func (s *stubTraining) List() []*model.TrainingSession { return s.sessions }

// stubRoles resolves roles from a fixed map.
type stubRoles struct {
	roles map[string]string
	err   error
}

func (s *stubRoles) RoleByUserID(_ context.Context, userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.roles[userID], nil
}
