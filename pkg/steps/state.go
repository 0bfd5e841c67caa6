package steps

import (
	"context"
	"errors"

	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/pages"
)

// ErrNoState is returned by steps that run without a scenario state, which
// means the lifecycle hooks were not registered.
var ErrNoState = errors.New("no scenario state in context")

// State is everything one scenario's steps share. It is created when the
// scenario starts and dropped when it ends.
type State struct {
	Config *config.AppConfig
	Driver *pages.Driver

	// LastEmployee is the employee most recently entered on the form
	LastEmployee pages.EmployeeData

	login    *pages.LoginPage
	employee *pages.EmployeePage
}

// NewState returns the state for a scenario driving d.
func NewState(cfg *config.AppConfig, d *pages.Driver) *State {
	return &State{Config: cfg, Driver: d}
}

// Login returns the scenario's login page object.
func (s *State) Login() *pages.LoginPage {
	if s.login == nil {
		s.login = pages.NewLoginPage(s.Driver, s.Config.Credentials)
	}
	return s.login
}

// Employee returns the scenario's employee page object.
func (s *State) Employee() *pages.EmployeePage {
	if s.employee == nil {
		s.employee = pages.NewEmployeePage(s.Driver)
	}
	return s.employee
}

type stateCtxKey struct{}

// WithState stores s in ctx.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateCtxKey{}, s)
}

// FromContext returns the scenario state stored in ctx.
func FromContext(ctx context.Context) (*State, error) {
	s, ok := ctx.Value(stateCtxKey{}).(*State)
	if !ok || s == nil {
		return nil, ErrNoState
	}
	return s, nil
}
