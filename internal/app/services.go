package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
)

// UserService описывает регистрацию пользователей и проверку их существования.
type UserService interface {
	Register(ctx context.Context, login, name string) (domain.User, error)
	Get(ctx context.Context, login string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Rename(ctx context.Context, login, name string) (domain.User, error)
	// RequireExists возвращает domain.ErrNotFound для неизвестного логина.
	RequireExists(ctx context.Context, login string) error
}

// ProjectService описывает проекты и их состав.
type ProjectService interface {
	Create(ctx context.Context, name, managerLogin string) (domain.Project, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListByUser(ctx context.Context, login string) ([]domain.Project, error)
	RoleInProject(ctx context.Context, projectID uuid.UUID, login string) (domain.Role, error)
	AddMember(ctx context.Context, projectID uuid.UUID, login string, role domain.Role, actor domain.Actor) (domain.Project, error)
}

// MilestoneService описывает жизненный цикл вех.
type MilestoneService interface {
	Create(ctx context.Context, projectID uuid.UUID, name string, start, end time.Time, actor domain.Actor) (domain.Milestone, error)
	Activate(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Milestone, error)
	Close(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Milestone, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error)
}

// TicketService описывает жизненный цикл тикетов.
type TicketService interface {
	Create(ctx context.Context, projectID, milestoneID uuid.UUID, title string, actor domain.Actor) (domain.Ticket, error)
	Assign(ctx context.Context, ticketID uuid.UUID, assignee string, actor domain.Actor) (domain.Ticket, error)
	SetStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus, actor domain.Actor) (domain.Ticket, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Ticket, error)
	ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, login string) ([]domain.Ticket, error)
}

// BugService описывает жизненный цикл баг-репортов.
type BugService interface {
	Create(ctx context.Context, projectID uuid.UUID, title string, actor domain.Actor) (domain.BugReport, error)
	Assign(ctx context.Context, bugID uuid.UUID, assignee string, actor domain.Actor) (domain.BugReport, error)
	SetStatus(ctx context.Context, bugID uuid.UUID, status domain.BugStatus, actor domain.Actor) (domain.BugReport, error)
	Get(ctx context.Context, id uuid.UUID) (domain.BugReport, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error)
	// ListAssigned возвращает «мои баги» только для DEVELOPER и TEAM_LEADER, иначе пустой список.
	ListAssigned(ctx context.Context, login string, role domain.Role) ([]domain.BugReport, error)
	// ListNeedsTesting: баги проекта в статусе FIXED.
	ListNeedsTesting(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error)
}
