package app

import (
	"database/sql"

	"issue_tracker/internal/repository"
	"issue_tracker/internal/repository/sqlrepo"
)

// Repositories обертка над репозиториями, чтобы иметь возможность передавать единым скопом
type Repositories struct {
	Users      repository.UserRepository
	Projects   repository.ProjectRepository
	Milestones repository.MilestoneRepository
	Tickets    repository.TicketRepository
	Bugs       repository.BugRepository
}

// NewRepositories создаёт SQL-реализации всех репозиториев поверх одного пула.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:      sqlrepo.NewUserRepository(db),
		Projects:   sqlrepo.NewProjectRepository(db),
		Milestones: sqlrepo.NewMilestoneRepository(db),
		Tickets:    sqlrepo.NewTicketRepository(db),
		Bugs:       sqlrepo.NewBugRepository(db),
	}
}
