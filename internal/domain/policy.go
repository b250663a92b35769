package domain

import (
	"slices"
)

// Action: операция, право на которую проверяет политика.
type Action string

const (
	ActionAddMember         Action = "project.add_member"
	ActionMilestoneCreate   Action = "milestone.create"
	ActionMilestoneActivate Action = "milestone.activate"
	ActionMilestoneClose    Action = "milestone.close"
	ActionTicketCreate      Action = "ticket.create"
	ActionTicketAssign      Action = "ticket.assign"
	ActionTicketSetStatus   Action = "ticket.set_status"
	ActionBugCreate         Action = "bug.create"
	ActionBugAssign         Action = "bug.assign"
	ActionBugSetStatus      Action = "bug.set_status"
)

// Decision: результат проверки прав.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// actionRoles: кому операция разрешена безусловно.
// Операции, завязанные на личность актора, уточняются функциями ниже.
var actionRoles = map[Action][]Role{
	ActionAddMember:         {RoleManager},
	ActionMilestoneCreate:   {RoleManager},
	ActionMilestoneActivate: {RoleManager},
	ActionMilestoneClose:    {RoleManager},
	ActionTicketCreate:      {RoleManager, RoleTeamLeader},
	ActionTicketAssign:      {RoleManager, RoleTeamLeader},
	ActionTicketSetStatus:   {RoleManager, RoleTeamLeader},
	ActionBugCreate:         {RoleDeveloper, RoleTester, RoleTeamLeader},
	ActionBugAssign:         {RoleManager, RoleTeamLeader},
}

// bugStatusRoles: кто может перевести баг в целевой статус.
// Ветка BugNew недостижима: граф переходов никогда не возвращает баг в NEW.
var bugStatusRoles = map[BugStatus][]Role{
	BugNew:    {RoleManager, RoleTeamLeader},
	BugFixed:  {RoleManager, RoleTeamLeader},
	BugTested: {RoleTester, RoleManager, RoleTeamLeader},
	BugClosed: {RoleTester, RoleManager, RoleTeamLeader},
}

// Decide проверяет операцию только по роли.
func Decide(actor Actor, action Action) Decision {
	if slices.Contains(actionRoles[action], actor.Role) {
		return Allow
	}
	return Deny
}

// Authorize возвращает Violation с причиной denied, если роль не допускает операцию.
func Authorize(actor Actor, action Action) error {
	if d := Decide(actor, action); d != Allow {
		return Denied("%s for role %q: %s", action, actor.Role, d)
	}
	return nil
}

// AuthorizeManager требует роль MANAGER и совпадение логина с менеджером проекта:
// заявленной роли здесь недостаточно.
func AuthorizeManager(p Project, actor Actor, action Action) error {
	if err := Authorize(actor, action); err != nil {
		return err
	}
	if p.ManagerLogin != actor.Login {
		return Denied("%s: only project manager can do this", action)
	}
	return nil
}

// DecideTicketStatus: менеджер и тимлид всегда, разработчик только на своём тикете.
func DecideTicketStatus(actor Actor, t Ticket) Decision {
	if Decide(actor, ActionTicketSetStatus) == Allow {
		return Allow
	}
	if actor.Role == RoleDeveloper && t.IsAssignedTo(actor.Login) {
		return Allow
	}
	return Deny
}

// DecideBugAssign: менеджер и тимлид назначают кого угодно, разработчик только себя.
func DecideBugAssign(actor Actor, assignee string) Decision {
	if Decide(actor, ActionBugAssign) == Allow {
		return Allow
	}
	if actor.Role == RoleDeveloper && actor.Login == assignee {
		return Allow
	}
	return Deny
}

// DecideBugStatus проверяет право перевести баг в статус to.
// В FIXED может перевести и сам назначенный исполнитель, независимо от роли.
func DecideBugStatus(actor Actor, b BugReport, to BugStatus) Decision {
	if to == BugFixed && b.HasAssignee() && actor.Login == b.AssigneeLogin {
		return Allow
	}
	if slices.Contains(bugStatusRoles[to], actor.Role) {
		return Allow
	}
	return Deny
}

// Valid сообщает, является ли значение одной из четырёх ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleTeamLeader, RoleDeveloper, RoleTester:
		return true
	}
	return false
}
