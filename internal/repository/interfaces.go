// Package repository содержит интерфейсы доступа к хранилищам данных.
// Save везде идемпотентный upsert по идентификатору, Get* при отсутствии записи возвращают domain.ErrNotFound.
package repository

import (
	"context"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
)

// UserRepository определяет операции над хранилищем пользователей.
type UserRepository interface {
	// Create вставляет нового пользователя; занятый логин даёт конфликт.
	Create(ctx context.Context, u domain.User) error
	Save(ctx context.Context, u domain.User) error
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	Exists(ctx context.Context, login string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ProjectRepository определяет операции над проектами и их составом.
type ProjectRepository interface {
	Save(ctx context.Context, p domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListByUser(ctx context.Context, login string) ([]domain.Project, error)
}

// MilestoneRepository определяет операции над вехами.
type MilestoneRepository interface {
	Save(ctx context.Context, m domain.Milestone) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error)
	// HasCurrent: есть ли у проекта веха в OPEN или ACTIVE.
	HasCurrent(ctx context.Context, projectID uuid.UUID) (bool, error)
	// HasActive: есть ли у проекта ACTIVE-веха, кроме excludeID.
	HasActive(ctx context.Context, projectID, excludeID uuid.UUID) (bool, error)
}

// TicketRepository определяет операции над тикетами.
type TicketRepository interface {
	Save(ctx context.Context, t domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error)
	ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, login string) ([]domain.Ticket, error)
	// AllDone: все тикеты вехи в DONE; для вехи без тикетов true.
	AllDone(ctx context.Context, milestoneID uuid.UUID) (bool, error)
}

// BugRepository определяет операции над баг-репортами.
type BugRepository interface {
	Save(ctx context.Context, b domain.BugReport) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.BugReport, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error)
	ListByAssignee(ctx context.Context, login string) ([]domain.BugReport, error)
	ListByStatus(ctx context.Context, projectID uuid.UUID, status domain.BugStatus) ([]domain.BugReport, error)
}
