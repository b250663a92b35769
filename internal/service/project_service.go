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

type projectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	log      zerolog.Logger
}

// NewProjectService создаёт сервис проектов и их состава.
func NewProjectService(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) app.ProjectService {
	return &projectService{
		projects: projects,
		users:    users,
		log:      log.With().Str("svc", "project").Logger(),
	}
}

// Create заводит проект; создатель становится его менеджером.
func (s *projectService) Create(ctx context.Context, name, managerLogin string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, domain.Invalid("project name must not be blank")
	}
	if err := requireUser(ctx, s.users, managerLogin); err != nil {
		return domain.Project{}, err
	}

	p := domain.Project{
		ID:              uuid.New(),
		Name:            name,
		ManagerLogin:    managerLogin,
		DeveloperLogins: []string{},
		TesterLogins:    []string{},
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return domain.Project{}, err
	}

	s.log.Info().Stringer("project", p.ID).Str("manager", managerLogin).Msg("project created")
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// ListByUser возвращает проекты, в которых пользователь участвует в любой роли.
func (s *projectService) ListByUser(ctx context.Context, login string) ([]domain.Project, error) {
	return s.projects.ListByUser(ctx, login)
}

// RoleInProject вычисляет роль пользователя; RoleNone, если он не участник.
func (s *projectService) RoleInProject(ctx context.Context, projectID uuid.UUID, login string) (domain.Role, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.RoleNone, err
	}
	return p.RoleOf(login), nil
}

// AddMember добавляет участника. TEAM_LEADER заменяет текущего тимлида,
// DEVELOPER и TESTER добавляются идемпотентно, MANAGER не назначается никогда.
func (s *projectService) AddMember(
	ctx context.Context,
	projectID uuid.UUID,
	login string,
	role domain.Role,
	actor domain.Actor,
) (domain.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if err := domain.AuthorizeManager(p, actor, domain.ActionAddMember); err != nil {
		return domain.Project{}, err
	}

	if role == domain.RoleManager {
		return domain.Project{}, domain.Invalid("manager cannot be added as a member")
	}
	if !role.Valid() {
		return domain.Project{}, domain.Invalid("unknown role %q", role)
	}
	if err := requireUser(ctx, s.users, login); err != nil {
		return domain.Project{}, err
	}

	updated := p.WithMember(login, role)
	if err := s.projects.Save(ctx, updated); err != nil {
		return domain.Project{}, err
	}

	s.log.Info().
		Stringer("project", p.ID).
		Str("login", login).
		Str("role", string(role)).
		Str("actor", actor.Login).
		Msg("member added")
	return updated, nil
}
