package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type milestoneService struct {
	milestones repository.MilestoneRepository
	projects   repository.ProjectRepository
	tickets    repository.TicketRepository
	log        zerolog.Logger
}

// NewMilestoneService создаёт сервис жизненного цикла вех.
func NewMilestoneService(
	milestones repository.MilestoneRepository,
	projects repository.ProjectRepository,
	tickets repository.TicketRepository,
	log zerolog.Logger,
) app.MilestoneService {
	return &milestoneService{
		milestones: milestones,
		projects:   projects,
		tickets:    tickets,
		log:        log.With().Str("svc", "milestone").Logger(),
	}
}

// Create открывает новую веху. У проекта не может быть двух текущих (OPEN или ACTIVE) вех.
func (s *milestoneService) Create(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	start, end time.Time,
	actor domain.Actor,
) (domain.Milestone, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if err := domain.AuthorizeManager(p, actor, domain.ActionMilestoneCreate); err != nil {
		return domain.Milestone{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Milestone{}, domain.Invalid("milestone name must not be blank")
	}
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return domain.Milestone{}, domain.Invalid("end date %s is before start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	hasCurrent, err := s.milestones.HasCurrent(ctx, projectID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if hasCurrent {
		return domain.Milestone{}, domain.Conflict("project already has an open or active milestone")
	}

	m := domain.Milestone{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    domain.MilestoneOpen,
	}
	if err := s.milestones.Save(ctx, m); err != nil {
		return domain.Milestone{}, err
	}

	s.log.Info().Stringer("milestone", m.ID).Stringer("project", projectID).Str("actor", actor.Login).Msg("milestone created")
	return m, nil
}

// Activate переводит веху OPEN -> ACTIVE. Уже активная веха возвращается без изменений.
func (s *milestoneService) Activate(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Milestone, error) {
	m, err := s.loadAuthorized(ctx, id, actor, domain.ActionMilestoneActivate)
	if err != nil {
		return domain.Milestone{}, err
	}

	switch m.Status {
	case domain.MilestoneClosed:
		return domain.Milestone{}, domain.IllegalTransition(m.Status, domain.MilestoneActive)
	case domain.MilestoneActive:
		return m, nil
	}

	hasActive, err := s.milestones.HasActive(ctx, m.ProjectID, m.ID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if hasActive {
		return domain.Milestone{}, domain.Conflict("project already has an active milestone")
	}

	return s.transition(ctx, m, domain.MilestoneActive, actor)
}

// Close переводит веху ACTIVE -> CLOSED, если все её тикеты в DONE.
func (s *milestoneService) Close(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Milestone, error) {
	m, err := s.loadAuthorized(ctx, id, actor, domain.ActionMilestoneClose)
	if err != nil {
		return domain.Milestone{}, err
	}
	if !m.Status.CanTransitionTo(domain.MilestoneClosed) {
		return domain.Milestone{}, domain.IllegalTransition(m.Status, domain.MilestoneClosed)
	}

	done, err := s.tickets.AllDone(ctx, m.ID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if !done {
		return domain.Milestone{}, domain.Conflict("milestone has tickets that are not done")
	}

	return s.transition(ctx, m, domain.MilestoneClosed, actor)
}

func (s *milestoneService) Get(ctx context.Context, id uuid.UUID) (domain.Milestone, error) {
	return s.milestones.GetByID(ctx, id)
}

// ListByProject возвращает вехи проекта по дате начала. Для несуществующего проекта domain.ErrNotFound.
func (s *milestoneService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	if err := requireProject(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.milestones.ListByProject(ctx, projectID)
}

// loadAuthorized загружает веху и проверяет, что актор является менеджером её проекта.
func (s *milestoneService) loadAuthorized(
	ctx context.Context,
	id uuid.UUID,
	actor domain.Actor,
	action domain.Action,
) (domain.Milestone, error) {
	m, err := s.milestones.GetByID(ctx, id)
	if err != nil {
		return domain.Milestone{}, err
	}
	p, err := s.projects.GetByID(ctx, m.ProjectID)
	if err != nil {
		return domain.Milestone{}, err
	}
	if err := domain.AuthorizeManager(p, actor, action); err != nil {
		return domain.Milestone{}, err
	}
	return m, nil
}

func (s *milestoneService) transition(
	ctx context.Context,
	m domain.Milestone,
	to domain.MilestoneStatus,
	actor domain.Actor,
) (domain.Milestone, error) {
	updated := m.WithStatus(to)
	if err := s.milestones.Save(ctx, updated); err != nil {
		return domain.Milestone{}, err
	}

	s.log.Info().
		Stringer("milestone", m.ID).
		Str("from", string(m.Status)).
		Str("to", string(to)).
		Str("actor", actor.Login).
		Msg("milestone status changed")
	return updated, nil
}

func requireProject(ctx context.Context, projects repository.ProjectRepository, id uuid.UUID) error {
	exists, err := projects.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound("project", id)
	}
	return nil
}
