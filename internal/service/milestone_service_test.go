package service_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
)

func TestMilestoneCreate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Milestones.Create(f.ctx, f.project.ID, "M", day(2024, 1, 1), day(2024, 1, 31), lena)
	requireReason(t, err, domain.ReasonDenied)

	_, err = f.svc.Milestones.Create(f.ctx, f.project.ID, " ", day(2024, 1, 1), day(2024, 1, 31), alice)
	requireReason(t, err, domain.ReasonInvalid)

	_, err = f.svc.Milestones.Create(f.ctx, f.project.ID, "M", day(2024, 2, 1), day(2024, 1, 31), alice)
	requireReason(t, err, domain.ReasonInvalid)

	// время суток отбрасывается, однодневная веха допустима
	start := time.Date(2024, 1, 1, 18, 30, 0, 0, time.FixedZone("X", 3*3600))
	m, err := f.svc.Milestones.Create(f.ctx, f.project.ID, " M1 ", start, day(2024, 1, 1), alice)
	if err != nil {
		t.Fatal(err)
	}
	if m.Status != domain.MilestoneOpen || m.Name != "M1" || !m.StartDate.Equal(day(2024, 1, 1)) {
		t.Fatalf("created milestone = %+v", m)
	}

	got, err := f.svc.Milestones.Get(f.ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}

	// вторая текущая веха запрещена
	_, err = f.svc.Milestones.Create(f.ctx, f.project.ID, "M2", day(2024, 2, 1), day(2024, 2, 28), alice)
	requireReason(t, err, domain.ReasonConflict)
}

func TestMilestoneLifecycle(t *testing.T) {
	f := newFixture(t)
	m := f.milestone(t)

	_, err := f.svc.Milestones.Close(f.ctx, m.ID, alice)
	requireReason(t, err, domain.ReasonTransition)

	_, err = f.svc.Milestones.Activate(f.ctx, m.ID, lena)
	requireReason(t, err, domain.ReasonDenied)

	active, err := f.svc.Milestones.Activate(f.ctx, m.ID, alice)
	if err != nil {
		t.Fatal(err)
	}
	if active.Status != domain.MilestoneActive {
		t.Fatalf("status = %s", active.Status)
	}

	again, err := f.svc.Milestones.Activate(f.ctx, m.ID, alice)
	if err != nil || again != active {
		t.Fatalf("activating an active milestone must be a no-op: %+v, %v", again, err)
	}

	tk := f.ticket(t, m)
	_, err = f.svc.Milestones.Close(f.ctx, m.ID, alice)
	requireReason(t, err, domain.ReasonConflict)

	for _, s := range []domain.TicketStatus{domain.TicketAccepted, domain.TicketInProgress, domain.TicketDone} {
		if tk, err = f.svc.Tickets.SetStatus(f.ctx, tk.ID, s, alice); err != nil {
			t.Fatalf("ticket -> %s: %v", s, err)
		}
	}

	closed, err := f.svc.Milestones.Close(f.ctx, m.ID, alice)
	if err != nil {
		t.Fatal(err)
	}
	if closed.Status != domain.MilestoneClosed {
		t.Fatalf("status = %s", closed.Status)
	}

	_, err = f.svc.Milestones.Activate(f.ctx, m.ID, alice)
	requireReason(t, err, domain.ReasonTransition)

	// после закрытия можно открыть следующую
	if _, err := f.svc.Milestones.Create(f.ctx, f.project.ID, "M2", day(2024, 2, 1), day(2024, 2, 28), alice); err != nil {
		t.Fatalf("next milestone: %v", err)
	}

	list, err := f.svc.Milestones.ListByProject(f.ctx, f.project.ID)
	if err != nil || len(list) != 2 || list[0].ID != m.ID {
		t.Fatalf("ListByProject = %v, %v", list, err)
	}
}

func TestMilestoneCloseWithoutTickets(t *testing.T) {
	f := newFixture(t)
	m := f.milestone(t)

	if _, err := f.svc.Milestones.Activate(f.ctx, m.ID, alice); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Milestones.Close(f.ctx, m.ID, alice); err != nil {
		t.Fatalf("empty milestone must close: %v", err)
	}
}

func TestMilestoneActivateRejectsSecondActive(t *testing.T) {
	f := newFixture(t)
	first := f.milestone(t)

	// вторая OPEN-веха, записанная в обход Create: так выглядит гонка двух созданий
	second := domain.Milestone{
		ID:        uuid.New(),
		ProjectID: f.project.ID,
		Name:      "M2",
		StartDate: day(2024, 2, 1),
		EndDate:   day(2024, 2, 28),
		Status:    domain.MilestoneOpen,
	}
	if err := f.repos.Milestones.Save(f.ctx, second); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Milestones.Activate(f.ctx, first.ID, alice); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Milestones.Activate(f.ctx, second.ID, alice)
	requireReason(t, err, domain.ReasonConflict)

	got, err := f.svc.Milestones.Get(f.ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.MilestoneOpen {
		t.Fatalf("second milestone status = %s, want OPEN", got.Status)
	}
}
