package handler

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type stubEvents struct {
	homeFunc      func(p *model.Principal) ([]model.Event, error)
	listFunc      func(p *model.Principal, page int) (*model.EventPage, error)
	getFunc       func(p *model.Principal, id string) (*model.EventDetail, error)
	canCreateFunc func(p *model.Principal) error
	createFunc    func(p *model.Principal, in model.EventInput) (*model.Event, error)
	forEditFunc   func(p *model.Principal, id string) (*model.Event, error)
	updateFunc    func(p *model.Principal, id string, in model.EventInput) (*model.Event, error)
	deleteFunc    func(p *model.Principal, id string) error
	enrollFunc    func(p *model.Principal, id string) (*model.Event, error)
	cancelFunc    func(p *model.Principal, id string) (*model.Event, error)
	myEventsFunc  func(p *model.Principal) ([]model.Event, error)
}

func (s *stubEvents) Home(_ context.Context, p *model.Principal) ([]model.Event, error) {
	if s.homeFunc == nil {
		return nil, errNotStubbed
	}
	return s.homeFunc(p)
}

func (s *stubEvents) ListEvents(_ context.Context, p *model.Principal, page int) (*model.EventPage, error) {
	if s.listFunc == nil {
		return nil, errNotStubbed
	}
	return s.listFunc(p, page)
}

func (s *stubEvents) GetEvent(_ context.Context, p *model.Principal, id string) (*model.EventDetail, error) {
	if s.getFunc == nil {
		return nil, errNotStubbed
	}
	return s.getFunc(p, id)
}

func (s *stubEvents) CanCreate(p *model.Principal) error {
	if s.canCreateFunc == nil {
		return nil
	}
	return s.canCreateFunc(p)
}

func (s *stubEvents) CreateEvent(_ context.Context, p *model.Principal, in model.EventInput) (*model.Event, error) {
	if s.createFunc == nil {
		return nil, errNotStubbed
	}
	return s.createFunc(p, in)
}

func (s *stubEvents) EventForEdit(_ context.Context, p *model.Principal, id string) (*model.Event, error) {
	if s.forEditFunc == nil {
		return nil, errNotStubbed
	}
	return s.forEditFunc(p, id)
}

func (s *stubEvents) UpdateEvent(_ context.Context, p *model.Principal, id string, in model.EventInput) (*model.Event, error) {
	if s.updateFunc == nil {
		return nil, errNotStubbed
	}
	return s.updateFunc(p, id, in)
}

func (s *stubEvents) DeleteEvent(_ context.Context, p *model.Principal, id string) error {
	if s.deleteFunc == nil {
		return errNotStubbed
	}
	return s.deleteFunc(p, id)
}

func (s *stubEvents) Enroll(_ context.Context, p *model.Principal, id string) (*model.Event, error) {
	if s.enrollFunc == nil {
		return nil, errNotStubbed
	}
	return s.enrollFunc(p, id)
}

func (s *stubEvents) Cancel(_ context.Context, p *model.Principal, id string) (*model.Event, error) {
	if s.cancelFunc == nil {
		return nil, errNotStubbed
	}
	return s.cancelFunc(p, id)
}

func (s *stubEvents) MyEvents(_ context.Context, p *model.Principal) ([]model.Event, error) {
	if s.myEventsFunc == nil {
		return nil, errNotStubbed
	}
	return s.myEventsFunc(p)
}

type stubAccounts struct {
	registerFunc      func(req model.RegisterRequest) (*model.Session, error)
	loginFunc         func(req model.LoginRequest) (*model.Session, error)
	logoutFunc        func(token string) error
	profileFunc       func(p *model.Principal) (*model.User, error)
	updateProfileFunc func(p *model.Principal, req model.ProfileUpdateRequest) (*model.User, error)
	changeRoleFunc    func(p *model.Principal, userID string, req model.RoleChangeRequest) (*model.User, error)
}

func (s *stubAccounts) Register(_ context.Context, req model.RegisterRequest) (*model.Session, error) {
	if s.registerFunc == nil {
		return nil, errNotStubbed
	}
	return s.registerFunc(req)
}

func (s *stubAccounts) Login(_ context.Context, req model.LoginRequest) (*model.Session, error) {
	if s.loginFunc == nil {
		return nil, errNotStubbed
	}
	return s.loginFunc(req)
}

func (s *stubAccounts) Logout(_ context.Context, token string) error {
	if s.logoutFunc == nil {
		return nil
	}
	return s.logoutFunc(token)
}

func (s *stubAccounts) Profile(_ context.Context, p *model.Principal) (*model.User, error) {
	if s.profileFunc == nil {
		return nil, errNotStubbed
	}
	return s.profileFunc(p)
}

func (s *stubAccounts) UpdateProfile(_ context.Context, p *model.Principal, req model.ProfileUpdateRequest) (*model.User, error) {
	if s.updateProfileFunc == nil {
		return nil, errNotStubbed
	}
	return s.updateProfileFunc(p, req)
}

func (s *stubAccounts) ChangeRole(_ context.Context, p *model.Principal, userID string, req model.RoleChangeRequest) (*model.User, error) {
	if s.changeRoleFunc == nil {
		return nil, errNotStubbed
	}
	return s.changeRoleFunc(p, userID, req)
}

// stubAuth maps tokens to principals; unknown tokens are invalid.
type stubAuth struct {
	principals map[string]*model.Principal
	err        error
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*model.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, service.ErrInvalidToken
}

type countingRecorder struct {
	outcomes []string
}

func (c *countingRecorder) Enrollment(outcome string) {
	c.outcomes = append(c.outcomes, outcome)
}
