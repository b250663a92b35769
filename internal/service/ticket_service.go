package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type ticketService struct {
	tickets    repository.TicketRepository
	milestones repository.MilestoneRepository
	projects   repository.ProjectRepository
	users      repository.UserRepository
	log        zerolog.Logger
}

// NewTicketService создаёт сервис жизненного цикла тикетов.
func NewTicketService(
	tickets repository.TicketRepository,
	milestones repository.MilestoneRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) app.TicketService {
	return &ticketService{
		tickets:    tickets,
		milestones: milestones,
		projects:   projects,
		users:      users,
		log:        log.With().Str("svc", "ticket").Logger(),
	}
}

// Create заводит тикет NEW в незакрытой вехе проекта.
func (s *ticketService) Create(
	ctx context.Context,
	projectID, milestoneID uuid.UUID,
	title string,
	actor domain.Actor,
) (domain.Ticket, error) {
	if err := domain.Authorize(actor, domain.ActionTicketCreate); err != nil {
		return domain.Ticket{}, err
	}

	m, err := s.milestones.GetByID(ctx, milestoneID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if m.ProjectID != projectID {
		return domain.Ticket{}, domain.Conflict("milestone %s does not belong to project %s", milestoneID, projectID)
	}
	if m.IsClosed() {
		return domain.Ticket{}, domain.Conflict("milestone %s is closed", milestoneID)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Ticket{}, domain.Invalid("ticket title must not be blank")
	}

	t := domain.Ticket{
		ID:             uuid.New(),
		ProjectID:      projectID,
		MilestoneID:    milestoneID,
		Title:          title,
		AssigneeLogins: []string{},
		Status:         domain.TicketNew,
	}
	if err := s.tickets.Save(ctx, t); err != nil {
		return domain.Ticket{}, err
	}

	s.log.Info().Stringer("ticket", t.ID).Stringer("milestone", milestoneID).Str("actor", actor.Login).Msg("ticket created")
	return t, nil
}

// Assign добавляет исполнителя; статус не меняется.
func (s *ticketService) Assign(ctx context.Context, ticketID uuid.UUID, assignee string, actor domain.Actor) (domain.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := domain.Authorize(actor, domain.ActionTicketAssign); err != nil {
		return domain.Ticket{}, err
	}
	if err := s.requireOpenMilestone(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	if err := requireUser(ctx, s.users, assignee); err != nil {
		return domain.Ticket{}, err
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !p.CanBeAssigned(assignee) {
		return domain.Ticket{}, domain.Conflict("%s is neither a developer nor the team leader of the project", assignee)
	}

	updated := t.WithAssignee(assignee)
	if err := s.tickets.Save(ctx, updated); err != nil {
		return domain.Ticket{}, err
	}

	s.log.Info().Stringer("ticket", t.ID).Str("assignee", assignee).Str("actor", actor.Login).Msg("ticket assigned")
	return updated, nil
}

// SetStatus двигает тикет на один шаг вперёд по графу статусов.
func (s *ticketService) SetStatus(
	ctx context.Context,
	ticketID uuid.UUID,
	status domain.TicketStatus,
	actor domain.Actor,
) (domain.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !t.Status.CanTransitionTo(status) {
		return domain.Ticket{}, domain.IllegalTransition(t.Status, status)
	}
	if err := s.requireOpenMilestone(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	if d := domain.DecideTicketStatus(actor, t); d != domain.Allow {
		return domain.Ticket{}, domain.Denied("%s moving ticket to %s: %s", actor.Login, status, d)
	}

	updated := t.WithStatus(status)
	if err := s.tickets.Save(ctx, updated); err != nil {
		return domain.Ticket{}, err
	}

	s.log.Info().
		Stringer("ticket", t.ID).
		Str("from", string(t.Status)).
		Str("to", string(status)).
		Str("actor", actor.Login).
		Msg("ticket status changed")
	return updated, nil
}

func (s *ticketService) Get(ctx context.Context, id uuid.UUID) (domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListByMilestone возвращает тикеты вехи. Для несуществующей вехи domain.ErrNotFound.
func (s *ticketService) ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.Ticket, error) {
	if _, err := s.milestones.GetByID(ctx, milestoneID); err != nil {
		return nil, err
	}
	return s.tickets.ListByMilestone(ctx, milestoneID)
}

func (s *ticketService) ListByAssignee(ctx context.Context, login string) ([]domain.Ticket, error) {
	return s.tickets.ListByAssignee(ctx, login)
}

func (s *ticketService) requireOpenMilestone(ctx context.Context, t domain.Ticket) error {
	m, err := s.milestones.GetByID(ctx, t.MilestoneID)
	if err != nil {
		return err
	}
	if m.IsClosed() {
		return domain.Conflict("milestone %s is closed", m.ID)
	}
	return nil
}
