// Package http HTTP-транспорт поверх сервисов ядра.
// Актор передаётся query-параметрами user и role и считается уже аутентифицированным.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
	"issue_tracker/internal/config"
)

// NewRouter собирает gin.Engine со всеми эндпоинтами сервиса.
// На вход сервисы, внутри создаются хендлеры.
func NewRouter(cfg config.Config, log zerolog.Logger, svcs app.Services) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	userHandler := NewUserHandler(svcs.Users)
	projectHandler := NewProjectHandler(svcs.Projects)
	milestoneHandler := NewMilestoneHandler(svcs.Milestones)
	ticketHandler := NewTicketHandler(svcs.Tickets)
	bugHandler := NewBugHandler(svcs.Bugs)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Users
	r.POST("/users", userHandler.Register)
	r.GET("/users", userHandler.List)
	r.GET("/users/:login", userHandler.Get)
	r.PATCH("/users/:login", userHandler.Rename)

	// Projects
	r.POST("/projects", projectHandler.Create)
	r.GET("/projects", projectHandler.List)
	r.GET("/projects/:id", projectHandler.Get)
	r.GET("/projects/:id/role", projectHandler.Role)
	r.POST("/projects/:id/members", projectHandler.AddMember)

	// Milestones
	r.POST("/projects/:id/milestones", milestoneHandler.Create)
	r.GET("/projects/:id/milestones", milestoneHandler.ListByProject)
	r.GET("/milestones/:id", milestoneHandler.Get)
	r.PATCH("/milestones/:id", milestoneHandler.Update)

	// Tickets
	r.POST("/tickets", ticketHandler.Create)
	r.GET("/tickets/:id", ticketHandler.Get)
	r.PATCH("/tickets/:id", ticketHandler.Update)
	r.GET("/milestones/:id/tickets", ticketHandler.ListByMilestone)
	r.GET("/my/tickets", ticketHandler.Mine)

	// Bugs
	r.POST("/bugs", bugHandler.Create)
	r.GET("/bugs/:id", bugHandler.Get)
	r.PATCH("/bugs/:id", bugHandler.Update)
	r.GET("/projects/:id/bugs", bugHandler.ListByProject)
	r.GET("/projects/:id/bugs/needs-testing", bugHandler.NeedsTesting)
	r.GET("/my/bugs", bugHandler.Mine)

	return r
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("err", c.Errors.String())
		}
		ev.Str("m", c.Request.Method).
			Str("p", c.FullPath()).
			Int("s", status).
			Dur("latency", time.Since(start)).
			Msg("http")
	}
}
