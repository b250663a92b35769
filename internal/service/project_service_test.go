package service_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
)

func TestProjectCreateRoundTrip(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Projects.Create(f.ctx, " Tracker ", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Tracker" {
		t.Fatalf("name not trimmed: %q", p.Name)
	}
	got, err := f.svc.Projects.Get(f.ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}

	_, err = f.svc.Projects.Create(f.ctx, "X", "nobody")
	requireNotFound(t, err)
	_, err = f.svc.Projects.Create(f.ctx, "", "bob")
	requireReason(t, err, domain.ReasonInvalid)
}

func TestRoleInProject(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		login string
		want  domain.Role
	}{
		{"alice", domain.RoleManager},
		{"lena", domain.RoleTeamLeader},
		{"dave", domain.RoleDeveloper},
		{"carol", domain.RoleTester},
		{"bob", domain.RoleNone},
	}
	for _, tt := range tests {
		got, err := f.svc.Projects.RoleInProject(f.ctx, f.project.ID, tt.login)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("RoleInProject(%s) = %q, want %q", tt.login, got, tt.want)
		}
	}

	_, err := f.svc.Projects.RoleInProject(f.ctx, uuid.New(), "alice")
	requireNotFound(t, err)
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)

	// не менеджер проекта, хоть и с ролью MANAGER
	_, err := f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleDeveloper,
		domain.Actor{Login: "bob", Role: domain.RoleManager})
	requireReason(t, err, domain.ReasonDenied)

	_, err = f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleDeveloper, lena)
	requireReason(t, err, domain.ReasonDenied)

	_, err = f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleManager, alice)
	requireReason(t, err, domain.ReasonInvalid)

	_, err = f.svc.Projects.AddMember(f.ctx, f.project.ID, "nobody", domain.RoleDeveloper, alice)
	requireNotFound(t, err)

	_, err = f.svc.Projects.AddMember(f.ctx, uuid.New(), "bob", domain.RoleDeveloper, alice)
	requireNotFound(t, err)

	p, err := f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleDeveloper, alice)
	if err != nil {
		t.Fatal(err)
	}
	p, err = f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleDeveloper, alice)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.DeveloperLogins, []string{"dave", "bob"}) {
		t.Fatalf("developers = %v", p.DeveloperLogins)
	}

	p, err = f.svc.Projects.AddMember(f.ctx, f.project.ID, "bob", domain.RoleTeamLeader, alice)
	if err != nil {
		t.Fatal(err)
	}
	if p.TeamLeaderLogin != "bob" {
		t.Fatalf("team leader not replaced: %q", p.TeamLeaderLogin)
	}

	stored, _ := f.svc.Projects.Get(f.ctx, f.project.ID)
	if !reflect.DeepEqual(stored, p) {
		t.Fatalf("stored project differs:\n got %+v\nwant %+v", stored, p)
	}

	listed, _ := f.svc.Projects.ListByUser(f.ctx, "bob")
	if len(listed) != 1 || listed[0].ID != f.project.ID {
		t.Fatalf("ListByUser(bob) = %v", listed)
	}
}
