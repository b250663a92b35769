package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"issue_tracker/internal/app"
	"issue_tracker/internal/domain"
)

// MilestoneHandler обрабатывает HTTP-запросы, связанные с вехами.
type MilestoneHandler struct {
	svc app.MilestoneService
}

// NewMilestoneHandler создаёт обработчик вех.
func NewMilestoneHandler(svc app.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{svc: svc}
}

// Create POST /projects/:id/milestones?user=&role=
func (h *MilestoneHandler) Create(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		Name      string `json:"name"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if !bindJSON(c, &req) {
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		badRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		badRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	m, err := h.svc.Create(c.Request.Context(), projectID, req.Name, start, end, actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestoneToDTO(m))
}

// ListByProject GET /projects/:id/milestones
func (h *MilestoneHandler) ListByProject(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, milestoneToDTO))
}

// Get GET /milestones/:id
func (h *MilestoneHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestoneToDTO(m))
}

// Update PATCH /milestones/:id?user=&role= с телом {"action": "ACTIVATE"|"CLOSE"}
func (h *MilestoneHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var (
		m   domain.Milestone
		err error
	)
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case "ACTIVATE":
		m, err = h.svc.Activate(c.Request.Context(), id, actor)
	case "CLOSE":
		m, err = h.svc.Close(c.Request.Context(), id, actor)
	default:
		badRequest(c, "action must be ACTIVATE or CLOSE")
		return
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestoneToDTO(m))
}

// TicketHandler обрабатывает HTTP-запросы, связанные с тикетами.
type TicketHandler struct {
	svc app.TicketService
}

// NewTicketHandler создаёт обработчик тикетов.
func NewTicketHandler(svc app.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// Create POST /tickets?user=&role=
func (h *TicketHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		ProjectID   string `json:"project_id"`
		MilestoneID string `json:"milestone_id"`
		Title       string `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	projectID, ok := parseUUID(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	milestoneID, ok := parseUUID(c, "milestone_id", req.MilestoneID)
	if !ok {
		return
	}

	t, err := h.svc.Create(c.Request.Context(), projectID, milestoneID, req.Title, actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticketToDTO(t))
}

// Get GET /tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticketToDTO(t))
}

// ListByMilestone GET /milestones/:id/tickets
func (h *TicketHandler) ListByMilestone(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.ListByMilestone(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, ticketToDTO))
}

// Mine GET /my/tickets?user=
func (h *TicketHandler) Mine(c *gin.Context) {
	login, ok := requiredQuery(c, "user")
	if !ok {
		return
	}

	list, err := h.svc.ListByAssignee(c.Request.Context(), login)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, ticketToDTO))
}

// Update PATCH /tickets/:id?user=&role=. Сначала назначение, затем смена статуса.
// Недопустимый переход отклоняется до назначения; отказ SetStatus по правам
// приходит уже после сохранённого назначения.
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		AssigneeLogin *string `json:"assignee_login"`
		Status        *string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.AssigneeLogin == nil && req.Status == nil {
		badRequest(c, "assignee_login or status is required")
		return
	}

	var status domain.TicketStatus
	if req.Status != nil {
		status = domain.TicketStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.Valid() {
			badRequest(c, "unknown ticket status")
			return
		}
	}

	var (
		t   domain.Ticket
		err error
	)
	if req.AssigneeLogin != nil && req.Status != nil {
		if t, err = h.svc.Get(c.Request.Context(), id); err != nil {
			WriteError(c, err)
			return
		}
		if !t.Status.CanTransitionTo(status) {
			WriteError(c, domain.IllegalTransition(t.Status, status))
			return
		}
	}
	if req.AssigneeLogin != nil {
		if t, err = h.svc.Assign(c.Request.Context(), id, strings.TrimSpace(*req.AssigneeLogin), actor); err != nil {
			WriteError(c, err)
			return
		}
	}
	if req.Status != nil {
		if t, err = h.svc.SetStatus(c.Request.Context(), id, status, actor); err != nil {
			WriteError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, ticketToDTO(t))
}

// BugHandler обрабатывает HTTP-запросы, связанные с баг-репортами.
type BugHandler struct {
	svc app.BugService
}

// NewBugHandler создаёт обработчик баг-репортов.
func NewBugHandler(svc app.BugService) *BugHandler {
	return &BugHandler{svc: svc}
}

// Create POST /bugs?user=&role=
func (h *BugHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		ProjectID string `json:"project_id"`
		Title     string `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	projectID, ok := parseUUID(c, "project_id", req.ProjectID)
	if !ok {
		return
	}

	b, err := h.svc.Create(c.Request.Context(), projectID, req.Title, actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bugToDTO(b))
}

// Get GET /bugs/:id
func (h *BugHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, bugToDTO(b))
}

// ListByProject GET /projects/:id/bugs
func (h *BugHandler) ListByProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.ListByProject(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, bugToDTO))
}

// NeedsTesting GET /projects/:id/bugs/needs-testing
func (h *BugHandler) NeedsTesting(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	list, err := h.svc.ListNeedsTesting(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, bugToDTO))
}

// Mine GET /my/bugs?user=&role=
func (h *BugHandler) Mine(c *gin.Context) {
	login, ok := requiredQuery(c, "user")
	if !ok {
		return
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(c.Query("role"))))

	list, err := h.svc.ListAssigned(c.Request.Context(), login, role)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, bugToDTO))
}

// Update PATCH /bugs/:id?user=&role=. Сначала назначение, затем смена статуса.
// Недопустимый переход отклоняется до назначения; отказ SetStatus по правам
// приходит уже после сохранённого назначения.
func (h *BugHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req struct {
		AssigneeLogin *string `json:"assignee_login"`
		Status        *string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.AssigneeLogin == nil && req.Status == nil {
		badRequest(c, "assignee_login or status is required")
		return
	}

	var status domain.BugStatus
	if req.Status != nil {
		status = domain.BugStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.Valid() {
			badRequest(c, "unknown bug status")
			return
		}
	}

	var (
		b   domain.BugReport
		err error
	)
	if req.AssigneeLogin != nil && req.Status != nil {
		if b, err = h.svc.Get(c.Request.Context(), id); err != nil {
			WriteError(c, err)
			return
		}
		if !b.Status.CanTransitionTo(status) {
			WriteError(c, domain.IllegalTransition(b.Status, status))
			return
		}
	}
	if req.AssigneeLogin != nil {
		if b, err = h.svc.Assign(c.Request.Context(), id, strings.TrimSpace(*req.AssigneeLogin), actor); err != nil {
			WriteError(c, err)
			return
		}
	}
	if req.Status != nil {
		if b, err = h.svc.SetStatus(c.Request.Context(), id, status, actor); err != nil {
			WriteError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, bugToDTO(b))
}
