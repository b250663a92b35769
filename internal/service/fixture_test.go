package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
	"issue_tracker/internal/db/dbtest"
	"issue_tracker/internal/domain"
	"issue_tracker/internal/service"
)

var (
	alice = domain.Actor{Login: "alice", Role: domain.RoleManager}
	lena  = domain.Actor{Login: "lena", Role: domain.RoleTeamLeader}
	bob   = domain.Actor{Login: "bob", Role: domain.RoleDeveloper}
	dave  = domain.Actor{Login: "dave", Role: domain.RoleDeveloper}
	carol = domain.Actor{Login: "carol", Role: domain.RoleTester}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	ctx     context.Context
	repos   *app.Repositories
	svc     app.Services
	project domain.Project
}

// newFixture поднимает сервисы на чистой базе: пользователи зарегистрированы,
// проект P создан alice, dave: разработчик, lena: тимлид, carol: тестировщик. bob в проект не входит.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	repos := app.NewRepositories(dbtest.NewSQLite(t))
	svc := service.NewServices(repos, zerolog.Nop())

	for _, login := range []string{"alice", "bob", "carol", "dave", "lena"} {
		if _, err := svc.Users.Register(ctx, login, login); err != nil {
			t.Fatalf("register %s: %v", login, err)
		}
	}

	p, err := svc.Projects.Create(ctx, "P", "alice")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	for _, m := range []struct {
		login string
		role  domain.Role
	}{
		{"dave", domain.RoleDeveloper},
		{"lena", domain.RoleTeamLeader},
		{"carol", domain.RoleTester},
	} {
		if p, err = svc.Projects.AddMember(ctx, p.ID, m.login, m.role, alice); err != nil {
			t.Fatalf("add %s: %v", m.login, err)
		}
	}

	return &fixture{ctx: ctx, repos: repos, svc: svc, project: p}
}

func (f *fixture) milestone(t *testing.T) domain.Milestone {
	t.Helper()
	m, err := f.svc.Milestones.Create(f.ctx, f.project.ID, "M", day(2024, 1, 1), day(2024, 1, 31), alice)
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	return m
}

func (f *fixture) ticket(t *testing.T, m domain.Milestone) domain.Ticket {
	t.Helper()
	tk, err := f.svc.Tickets.Create(f.ctx, f.project.ID, m.ID, "T", alice)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return tk
}

func requireReason(t *testing.T, err error, want domain.ViolationReason) {
	t.Helper()
	if !errors.Is(err, domain.ErrPolicyViolation) {
		t.Fatalf("expected policy violation (%s), got %v", want, err)
	}
	if got := domain.ReasonOf(err); got != want {
		t.Fatalf("reason = %q, want %q (%v)", got, want, err)
	}
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
