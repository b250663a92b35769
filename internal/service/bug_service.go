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

type bugService struct {
	bugs     repository.BugRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

// NewBugService создаёт сервис жизненного цикла баг-репортов.
func NewBugService(
	bugs repository.BugRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) app.BugService {
	return &bugService{
		bugs:     bugs,
		projects: projects,
		users:    users,
		log:      log.With().Str("svc", "bug").Logger(),
	}
}

// Create заводит баг NEW от имени актора. Исполнитель не назначается.
func (s *bugService) Create(ctx context.Context, projectID uuid.UUID, title string, actor domain.Actor) (domain.BugReport, error) {
	if err := domain.Authorize(actor, domain.ActionBugCreate); err != nil {
		return domain.BugReport{}, err
	}
	if err := requireProject(ctx, s.projects, projectID); err != nil {
		return domain.BugReport{}, err
	}
	if err := requireUser(ctx, s.users, actor.Login); err != nil {
		return domain.BugReport{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.BugReport{}, domain.Invalid("bug title must not be blank")
	}

	b := domain.BugReport{
		ID:            uuid.New(),
		ProjectID:     projectID,
		Title:         title,
		ReporterLogin: actor.Login,
		Status:        domain.BugNew,
	}
	if err := s.bugs.Save(ctx, b); err != nil {
		return domain.BugReport{}, err
	}

	s.log.Info().Stringer("bug", b.ID).Stringer("project", projectID).Str("reporter", actor.Login).Msg("bug reported")
	return b, nil
}

// Assign назначает единственного исполнителя, перезаписывая прежнего.
func (s *bugService) Assign(ctx context.Context, bugID uuid.UUID, assignee string, actor domain.Actor) (domain.BugReport, error) {
	b, err := s.bugs.GetByID(ctx, bugID)
	if err != nil {
		return domain.BugReport{}, err
	}
	if b.Status == domain.BugClosed {
		return domain.BugReport{}, domain.Conflict("bug %s is closed", b.ID)
	}
	if d := domain.DecideBugAssign(actor, assignee); d != domain.Allow {
		return domain.BugReport{}, domain.Denied("%s assigning bug to %s: %s", actor.Login, assignee, d)
	}
	if err := requireUser(ctx, s.users, assignee); err != nil {
		return domain.BugReport{}, err
	}

	p, err := s.projects.GetByID(ctx, b.ProjectID)
	if err != nil {
		return domain.BugReport{}, err
	}
	if !p.CanBeAssigned(assignee) {
		return domain.BugReport{}, domain.Conflict("%s is neither a developer nor the team leader of the project", assignee)
	}

	updated := b.WithAssignee(assignee)
	if err := s.bugs.Save(ctx, updated); err != nil {
		return domain.BugReport{}, err
	}

	s.log.Info().
		Stringer("bug", b.ID).
		Str("assignee", assignee).
		Str("previous", b.AssigneeLogin).
		Str("actor", actor.Login).
		Msg("bug assigned")
	return updated, nil
}

// SetStatus двигает баг на один шаг вперёд. В NEW баг не возвращается никогда.
func (s *bugService) SetStatus(
	ctx context.Context,
	bugID uuid.UUID,
	status domain.BugStatus,
	actor domain.Actor,
) (domain.BugReport, error) {
	b, err := s.bugs.GetByID(ctx, bugID)
	if err != nil {
		return domain.BugReport{}, err
	}
	if !b.Status.CanTransitionTo(status) {
		return domain.BugReport{}, domain.IllegalTransition(b.Status, status)
	}
	if status == domain.BugFixed && !b.HasAssignee() {
		return domain.BugReport{}, domain.Conflict("bug %s has no assignee", b.ID)
	}
	if d := domain.DecideBugStatus(actor, b, status); d != domain.Allow {
		return domain.BugReport{}, domain.Denied("%s moving bug to %s: %s", actor.Login, status, d)
	}

	updated := b.WithStatus(status)
	if err := s.bugs.Save(ctx, updated); err != nil {
		return domain.BugReport{}, err
	}

	s.log.Info().
		Stringer("bug", b.ID).
		Str("from", string(b.Status)).
		Str("to", string(status)).
		Str("actor", actor.Login).
		Msg("bug status changed")
	return updated, nil
}

func (s *bugService) Get(ctx context.Context, id uuid.UUID) (domain.BugReport, error) {
	return s.bugs.GetByID(ctx, id)
}

func (s *bugService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error) {
	if err := requireProject(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.bugs.ListByProject(ctx, projectID)
}

// ListAssigned отдаёт баги исполнителя. Тестировщику и менеджеру «своих» багов не бывает.
func (s *bugService) ListAssigned(ctx context.Context, login string, role domain.Role) ([]domain.BugReport, error) {
	if role != domain.RoleDeveloper && role != domain.RoleTeamLeader {
		return []domain.BugReport{}, nil
	}
	return s.bugs.ListByAssignee(ctx, login)
}

func (s *bugService) ListNeedsTesting(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error) {
	if err := requireProject(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.bugs.ListByStatus(ctx, projectID, domain.BugFixed)
}
