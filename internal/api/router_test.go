package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/domain"
)

type tokenSessions struct {
	users map[string]*domain.User
}

func (s *tokenSessions) Start(_ context.Context, u *domain.User) (string, error) {
	s.users["tok-"+u.ID] = u
	return "tok-" + u.ID, nil
}

func (s *tokenSessions) Resolve(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrSessionExpired
}

func (s *tokenSessions) End(_ context.Context, token string) error {
	delete(s.users, token)
	return nil
}

type fakeAuth struct{}

func (fakeAuth) Register(_ context.Context, reg domain.Registration) (*domain.User, error) {
	return &domain.User{ID: "new", Name: reg.Name, Email: reg.Email, Role: reg.Role}, nil
}

func (fakeAuth) Login(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

type fakeJobs struct{ err error }

func (f fakeJobs) Create(_ context.Context, owner *domain.User, fields domain.JobFields) (*domain.Job, error) {
	return &domain.Job{ID: "j1", ClientID: owner.ID, Title: fields.Title, Category: fields.Category}, f.err
}
func (f fakeJobs) List(context.Context, string) ([]*domain.Job, error) { return []*domain.Job{}, f.err }
func (f fakeJobs) ListByClient(context.Context, string) ([]*domain.Job, error) {
	return []*domain.Job{}, f.err
}
func (f fakeJobs) Get(context.Context, string) (*domain.Job, error) {
	return nil, domain.ErrJobNotFound
}
func (f fakeJobs) Delete(context.Context, *domain.User, string) (int64, error) {
	return 0, &domain.PartialCleanupError{JobID: "j1", Err: context.DeadlineExceeded}
}

type fakeProposals struct{}

func (fakeProposals) Submit(context.Context, *domain.User, string, domain.ProposalFields) (*domain.Proposal, error) {
	return nil, domain.ErrDuplicateProposal
}
func (fakeProposals) ListByFreelancer(context.Context, string) ([]domain.ProposalView, error) {
	return []domain.ProposalView{}, nil
}
func (fakeProposals) ListByJob(context.Context, string, *domain.User) ([]*domain.Proposal, error) {
	return []*domain.Proposal{}, nil
}
func (fakeProposals) Delete(context.Context, *domain.User, string) error { return nil }

func newTestRouter(t *testing.T, jobs fakeJobs, authRate float64) *echo.Echo {
	t.Helper()
	sessions := &tokenSessions{users: map[string]*domain.User{
		"tok-c1": {ID: "c1", Role: domain.RoleClient},
		"tok-f1": {ID: "f1", Role: domain.RoleFreelancer},
	}}
	return NewRouter(Deps{
		Auth:       fakeAuth{},
		Sessions:   sessions,
		Jobs:       jobs,
		Proposals:  fakeProposals{},
		Cookie:     middleware.SessionCookie{Name: "marketplace_session", TTL: time.Hour},
		AuthRate:   authRate,
		AuthBurst:  2,
		Registerer: prometheus.NewRegistry(),
		Logger:     zerolog.Nop(),
	})
}

func serve(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	e := newTestRouter(t, fakeJobs{}, 0)
	jobBody := `{"title":"Logo","category":"graphics_design","budget":10,"deadline":"2026-12-01","description":"d"}`

	cases := []struct {
		name, method, target, token, body string
		code                              int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"categories anonymous", http.MethodGet, "/categories", "", "", http.StatusOK},
		{"browse anonymous", http.MethodGet, "/jobs?category=data", "", "", http.StatusOK},
		{"stale token is anonymous", http.MethodGet, "/jobs", "expired", "", http.StatusOK},
		{"me anonymous", http.MethodGet, "/me", "", "", http.StatusUnauthorized},
		{"me signed in", http.MethodGet, "/me", "tok-f1", "", http.StatusOK},
		{"post job anonymous", http.MethodPost, "/jobs", "", jobBody, http.StatusUnauthorized},
		{"post job freelancer", http.MethodPost, "/jobs", "tok-f1", jobBody, http.StatusForbidden},
		{"post job client", http.MethodPost, "/jobs", "tok-c1", jobBody, http.StatusCreated},
		{"post job invalid", http.MethodPost, "/jobs", "tok-c1", `{"title":"x"}`, http.StatusUnprocessableEntity},
		{"view missing job", http.MethodGet, "/jobs/nope", "", "", http.StatusNotFound},
		{"delete partial cleanup", http.MethodPost, "/jobs/j1/delete", "tok-c1", "", http.StatusInternalServerError},
		{"apply as client", http.MethodPost, "/jobs/j1/proposals", "tok-c1", `{"bid_amount":5,"cover_letter":"hi"}`, http.StatusForbidden},
		{"apply twice", http.MethodPost, "/jobs/j1/proposals", "tok-f1", `{"bid_amount":5,"cover_letter":"hi"}`, http.StatusConflict},
		{"withdraw", http.MethodDelete, "/proposals/p1", "tok-f1", "", http.StatusNoContent},
		{"withdraw via post", http.MethodPost, "/proposals/p1/delete", "tok-f1", "", http.StatusNoContent},
		{"client dashboard as freelancer", http.MethodGet, "/dashboard/client", "tok-f1", "", http.StatusForbidden},
		{"freelancer dashboard", http.MethodGet, "/dashboard/freelancer", "tok-f1", "", http.StatusOK},
		{"dashboard redirect", http.MethodGet, "/dashboard", "tok-c1", "", http.StatusFound},
		{"login bad credentials", http.MethodPost, "/auth/login", "", `{"email":"a@b.co","password":"x"}`, http.StatusUnauthorized},
		{"register", http.MethodPost, "/auth/register", "", `{"name":"N","email":"n@b.co","password":"x","role":"client"}`, http.StatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(e, tc.method, tc.target, tc.token, tc.body)
			if rec.Code != tc.code {
				t.Fatalf("%s %s: expected %d, got %d: %s", tc.method, tc.target, tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_StaleSession(t *testing.T) {
	e := newTestRouter(t, fakeJobs{}, 0)

	rec := serve(e, http.MethodGet, "/jobs", "expired", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("browsing with a stale token: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.HeaderSessionExpired) != "true" {
		t.Fatalf("expected %s header on anonymous browse", middleware.HeaderSessionExpired)
	}

	rec = serve(e, http.MethodGet, "/me", "expired", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "session expired") {
		t.Fatalf("expected session expired message, got %s", rec.Body.String())
	}

	rec = serve(e, http.MethodPost, "/jobs", "expired", `{"title":"x"}`)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "session expired") {
		t.Fatalf("expected 401 session expired on a role route, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_StoreUnavailable(t *testing.T) {
	e := newTestRouter(t, fakeJobs{err: domain.ErrStoreUnavailable}, 0)

	rec := serve(e, http.MethodGet, "/jobs", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	e := newTestRouter(t, fakeJobs{}, 0.001)

	body := `{"email":"a@b.co","password":"x"}`
	for i := 0; i < 2; i++ {
		if rec := serve(e, http.MethodPost, "/auth/login", "", body); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}
	if rec := serve(e, http.MethodPost, "/auth/login", "", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodGet, "/categories", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("rate limit must only apply to /auth, got %d", rec.Code)
	}
}
