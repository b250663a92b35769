package domain

import (
	"slices"
	"time"
)

// Participates показывает, входит ли пользователь в проект в какой-либо роли.
func (p Project) Participates(login string) bool {
	return p.RoleOf(login) != RoleNone
}

// RoleOf вычисляет роль пользователя в проекте.
// Если пользователь числится в нескольких наборах, побеждает более старшая роль.
func (p Project) RoleOf(login string) Role {
	switch {
	case login == "":
		return RoleNone
	case p.ManagerLogin == login:
		return RoleManager
	case p.TeamLeaderLogin == login:
		return RoleTeamLeader
	case slices.Contains(p.DeveloperLogins, login):
		return RoleDeveloper
	case slices.Contains(p.TesterLogins, login):
		return RoleTester
	}
	return RoleNone
}

// CanBeAssigned: разработчик проекта или его тимлид. Только им назначаются тикеты и баги.
func (p Project) CanBeAssigned(login string) bool {
	if p.TeamLeaderLogin != "" && p.TeamLeaderLogin == login {
		return true
	}
	return slices.Contains(p.DeveloperLogins, login)
}

// WithMember возвращает копию проекта с добавленным участником.
// Роль MANAGER сюда не передаётся: менеджер задаётся только при создании проекта.
func (p Project) WithMember(login string, role Role) Project {
	out := p
	out.DeveloperLogins = slices.Clone(p.DeveloperLogins)
	out.TesterLogins = slices.Clone(p.TesterLogins)

	switch role {
	case RoleTeamLeader:
		out.TeamLeaderLogin = login
	case RoleDeveloper:
		out.DeveloperLogins = appendUnique(out.DeveloperLogins, login)
	case RoleTester:
		out.TesterLogins = appendUnique(out.TesterLogins, login)
	}
	return out
}

// IsCurrent: веха в статусе OPEN или ACTIVE.
func (m Milestone) IsCurrent() bool {
	return m.Status == MilestoneOpen || m.Status == MilestoneActive
}

// IsClosed показывает, что веха закрыта и её тикеты менять нельзя.
func (m Milestone) IsClosed() bool {
	return m.Status == MilestoneClosed
}

// WithStatus возвращает копию вехи с новым статусом.
func (m Milestone) WithStatus(s MilestoneStatus) Milestone {
	m.Status = s
	return m
}

// IsAssignedTo показывает, назначен ли пользователь на тикет.
func (t Ticket) IsAssignedTo(login string) bool {
	return slices.Contains(t.AssigneeLogins, login)
}

// WithAssignee возвращает копию тикета с добавленным исполнителем (без дублей).
func (t Ticket) WithAssignee(login string) Ticket {
	t.AssigneeLogins = appendUnique(slices.Clone(t.AssigneeLogins), login)
	return t
}

// WithStatus возвращает копию тикета с новым статусом.
func (t Ticket) WithStatus(s TicketStatus) Ticket {
	t.AssigneeLogins = slices.Clone(t.AssigneeLogins)
	t.Status = s
	return t
}

// HasAssignee показывает, назначен ли на баг разработчик.
func (b BugReport) HasAssignee() bool {
	return b.AssigneeLogin != ""
}

// WithAssignee возвращает копию бага с единственным исполнителем login.
func (b BugReport) WithAssignee(login string) BugReport {
	b.AssigneeLogin = login
	return b
}

// WithStatus возвращает копию бага с новым статусом.
func (b BugReport) WithStatus(s BugStatus) BugReport {
	b.Status = s
	return b
}

// DateOf отбрасывает время суток и зону: даты вех хранятся как календарные дни в UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
