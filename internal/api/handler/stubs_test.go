package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, reg domain.Registration) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubSessionService struct {
	startFn func(ctx context.Context, user *domain.User) (string, error)
	ended   []string
}

func (s *stubSessionService) Start(ctx context.Context, user *domain.User) (string, error) {
	if s.startFn == nil {
		return "token-" + user.ID, nil
	}
	return s.startFn(ctx, user)
}

func (s *stubSessionService) Resolve(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrSessionExpired
}

func (s *stubSessionService) End(_ context.Context, token string) error {
	s.ended = append(s.ended, token)
	return nil
}

type stubJobService struct {
	createFn       func(ctx context.Context, owner *domain.User, fields domain.JobFields) (*domain.Job, error)
	listFn         func(ctx context.Context, category string) ([]*domain.Job, error)
	listByClientFn func(ctx context.Context, clientID string) ([]*domain.Job, error)
	getFn          func(ctx context.Context, id string) (*domain.Job, error)
	deleteFn       func(ctx context.Context, actor *domain.User, id string) (int64, error)
}

func (s *stubJobService) Create(ctx context.Context, owner *domain.User, fields domain.JobFields) (*domain.Job, error) {
	return s.createFn(ctx, owner, fields)
}

func (s *stubJobService) List(ctx context.Context, category string) ([]*domain.Job, error) {
	return s.listFn(ctx, category)
}

func (s *stubJobService) ListByClient(ctx context.Context, clientID string) ([]*domain.Job, error) {
	return s.listByClientFn(ctx, clientID)
}

func (s *stubJobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.getFn(ctx, id)
}

func (s *stubJobService) Delete(ctx context.Context, actor *domain.User, id string) (int64, error) {
	return s.deleteFn(ctx, actor, id)
}

type stubProposalService struct {
	submitFn           func(ctx context.Context, actor *domain.User, jobID string, fields domain.ProposalFields) (*domain.Proposal, error)
	listByFreelancerFn func(ctx context.Context, freelancerID string) ([]domain.ProposalView, error)
	listByJobFn        func(ctx context.Context, jobID string, actor *domain.User) ([]*domain.Proposal, error)
	deleteFn           func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubProposalService) Submit(ctx context.Context, actor *domain.User, jobID string, fields domain.ProposalFields) (*domain.Proposal, error) {
	return s.submitFn(ctx, actor, jobID, fields)
}

func (s *stubProposalService) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.ProposalView, error) {
	return s.listByFreelancerFn(ctx, freelancerID)
}

func (s *stubProposalService) ListByJob(ctx context.Context, jobID string, actor *domain.User) ([]*domain.Proposal, error) {
	return s.listByJobFn(ctx, jobID, actor)
}

func (s *stubProposalService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

var (
	testCookie = middleware.SessionCookie{Name: "marketplace_session", TTL: time.Hour}
	alice      = &domain.User{ID: "c1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleClient}
	bob        = &domain.User{ID: "f1", Name: "Bob", Email: "bob@example.com", Role: domain.RoleFreelancer}
)

// newContext builds an echo context for method/target with an optional JSON
// body, the acting user and path params name=value pairs.
func newContext(method, target, body string, user *domain.User, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	return c, rec
}
