package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue_tracker/internal/app"
	"issue_tracker/internal/domain"
)

type userDTO struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type projectDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ManagerLogin    string   `json:"manager_login"`
	TeamLeaderLogin string   `json:"team_leader_login,omitempty"`
	DeveloperLogins []string `json:"developer_logins"`
	TesterLogins    []string `json:"tester_logins"`
}

type milestoneDTO struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type ticketDTO struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"project_id"`
	MilestoneID    string   `json:"milestone_id"`
	Title          string   `json:"title"`
	AssigneeLogins []string `json:"assignee_logins"`
	Status         string   `json:"status"`
}

type bugDTO struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Title         string `json:"title"`
	ReporterLogin string `json:"reporter_login"`
	AssigneeLogin string `json:"assignee_login,omitempty"`
	Status        string `json:"status"`
}

func userToDTO(u domain.User) userDTO {
	return userDTO{Login: u.Login, Name: u.Name}
}

func projectToDTO(p domain.Project) projectDTO {
	return projectDTO{
		ID:              p.ID.String(),
		Name:            p.Name,
		ManagerLogin:    p.ManagerLogin,
		TeamLeaderLogin: p.TeamLeaderLogin,
		DeveloperLogins: nonNil(p.DeveloperLogins),
		TesterLogins:    nonNil(p.TesterLogins),
	}
}

func milestoneToDTO(m domain.Milestone) milestoneDTO {
	return milestoneDTO{
		ID:        m.ID.String(),
		ProjectID: m.ProjectID.String(),
		Name:      m.Name,
		StartDate: m.StartDate.Format(time.DateOnly),
		EndDate:   m.EndDate.Format(time.DateOnly),
		Status:    string(m.Status),
	}
}

func ticketToDTO(t domain.Ticket) ticketDTO {
	return ticketDTO{
		ID:             t.ID.String(),
		ProjectID:      t.ProjectID.String(),
		MilestoneID:    t.MilestoneID.String(),
		Title:          t.Title,
		AssigneeLogins: nonNil(t.AssigneeLogins),
		Status:         string(t.Status),
	}
}

func bugToDTO(b domain.BugReport) bugDTO {
	return bugDTO{
		ID:            b.ID.String(),
		ProjectID:     b.ProjectID.String(),
		Title:         b.Title,
		ReporterLogin: b.ReporterLogin,
		AssigneeLogin: b.AssigneeLogin,
		Status:        string(b.Status),
	}
}

// mapSlice переводит список сущностей в список DTO; пустой список кодируется как [].
func mapSlice[T, D any](in []T, fn func(T) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// actorFrom читает актора из query-параметров user и role.
// Личность уже проверена снаружи, здесь только форма.
func actorFrom(c *gin.Context) (domain.Actor, bool) {
	login := strings.TrimSpace(c.Query("user"))
	role := domain.Role(strings.ToUpper(strings.TrimSpace(c.Query("role"))))
	if login == "" {
		badRequest(c, "query parameter user is required")
		return domain.Actor{}, false
	}
	if !role.Valid() {
		badRequest(c, "query parameter role must be one of MANAGER, TEAM_LEADER, DEVELOPER, TESTER")
		return domain.Actor{}, false
	}
	return domain.Actor{Login: login, Role: role}, true
}

func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		badRequest(c, "query parameter "+name+" is required")
		return "", false
	}
	return v, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	return parseUUID(c, name, c.Param(name))
}

func parseUUID(c *gin.Context, field, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, field+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid JSON body")
		return false
	}
	return true
}

// UserHandler обрабатывает HTTP-запросы, связанные с пользователями.
type UserHandler struct {
	svc app.UserService
}

// NewUserHandler создаёт обработчик пользователей.
func NewUserHandler(svc app.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req userDTO
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.Register(c.Request.Context(), req.Login, req.Name)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToDTO(u))
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(users, userToDTO))
}

// Get GET /users/:login
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("login"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToDTO(u))
}

// Rename PATCH /users/:login
func (h *UserHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.Rename(c.Request.Context(), c.Param("login"), req.Name)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToDTO(u))
}

// ProjectHandler обрабатывает HTTP-запросы, связанные с проектами и их составом.
type ProjectHandler struct {
	svc app.ProjectService
}

// NewProjectHandler создаёт обработчик проектов.
func NewProjectHandler(svc app.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create POST /projects?user=, пользователь становится менеджером проекта.
func (h *ProjectHandler) Create(c *gin.Context) {
	manager, ok := requiredQuery(c, "user")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.Name, manager)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectToDTO(p))
}

// List GET /projects[?user=]
func (h *ProjectHandler) List(c *gin.Context) {
	var (
		projects []domain.Project
		err      error
	)
	if login := strings.TrimSpace(c.Query("user")); login != "" {
		projects, err = h.svc.ListByUser(c.Request.Context(), login)
	} else {
		projects, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(projects, projectToDTO))
}

// Get GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToDTO(p))
}

// Role GET /projects/:id/role?login=
func (h *ProjectHandler) Role(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	login, ok := requiredQuery(c, "login")
	if !ok {
		return
	}

	role, err := h.svc.RoleInProject(c.Request.Context(), id, login)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"login":        login,
		"role":         string(role),
		"participates": role != domain.RoleNone,
	})
}

// AddMember POST /projects/:id/members?user=&role=
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		UserLogin string `json:"user_login"`
		Role      string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}

	role := domain.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	p, err := h.svc.AddMember(c.Request.Context(), id, strings.TrimSpace(req.UserLogin), role, actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToDTO(p))
}
