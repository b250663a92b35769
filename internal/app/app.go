// Package app пакет инициализации приложения
package app

import (
	"net/http"
)

// Services набор сервисов ядра, который получают HTTP-слой и тесты.
type Services struct {
	Users      UserService
	Projects   ProjectService
	Milestones MilestoneService
	Tickets    TicketService
	Bugs       BugService
}

// App структура собранного приложения. Хранит сервисы и корневой HTTP-хендлер.
type App struct {
	Handler  http.Handler
	Services Services
}

// NewApp обертка в красивую структуру
func NewApp(handler http.Handler, svcs Services) *App {
	return &App{
		Handler:  handler,
		Services: svcs,
	}
}
