// Package service содержит сервисный слой с логикой: загрузка, проверки политики, сохранение.
// Сервисы не держат состояния между вызовами, согласованность обеспечивает хранилище.
package service

import (
	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
)

// NewServices собирает все сервисы поверх общего набора репозиториев.
func NewServices(repos *app.Repositories, log zerolog.Logger) app.Services {
	return app.Services{
		Users:      NewUserService(repos.Users, log),
		Projects:   NewProjectService(repos.Projects, repos.Users, log),
		Milestones: NewMilestoneService(repos.Milestones, repos.Projects, repos.Tickets, log),
		Tickets:    NewTicketService(repos.Tickets, repos.Milestones, repos.Projects, repos.Users, log),
		Bugs:       NewBugService(repos.Bugs, repos.Projects, repos.Users, log),
	}
}
