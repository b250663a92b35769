package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет зарегистрированного пользователя.
type User struct {
	Login string
	Name  string
}

// Role: роль пользователя в конкретном проекте. На пользователе не хранится.
type Role string

const (
	// RoleNone означает, что пользователь в проекте не участвует.
	RoleNone       Role = ""
	RoleManager    Role = "MANAGER"
	RoleTeamLeader Role = "TEAM_LEADER"
	RoleDeveloper  Role = "DEVELOPER"
	RoleTester     Role = "TESTER"
)

// Actor: уже проверенная личность, выполняющая операцию, и её роль в проекте-владельце.
type Actor struct {
	Login string
	Role  Role
}

// Project представляет проект и его состав.
type Project struct {
	ID              uuid.UUID
	Name            string
	ManagerLogin    string
	TeamLeaderLogin string // пусто, если тимлида нет
	DeveloperLogins []string
	TesterLogins    []string
}

// MilestoneStatus описывает статус вехи.
type MilestoneStatus string

const (
	MilestoneOpen   MilestoneStatus = "OPEN"
	MilestoneActive MilestoneStatus = "ACTIVE"
	MilestoneClosed MilestoneStatus = "CLOSED"
)

// Milestone: веха проекта, группирующая тикеты.
type Milestone struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    MilestoneStatus
}

// TicketStatus описывает статус тикета.
type TicketStatus string

const (
	TicketNew        TicketStatus = "NEW"
	TicketAccepted   TicketStatus = "ACCEPTED"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketDone       TicketStatus = "DONE"
)

// Ticket: задача внутри вехи.
type Ticket struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	MilestoneID    uuid.UUID
	Title          string
	AssigneeLogins []string
	Status         TicketStatus
}

// BugStatus описывает статус баг-репорта.
type BugStatus string

const (
	BugNew    BugStatus = "NEW"
	BugFixed  BugStatus = "FIXED"
	BugTested BugStatus = "TESTED"
	BugClosed BugStatus = "CLOSED"
)

// BugReport: баг-репорт проекта. От вех не зависит.
type BugReport struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	Title         string
	ReporterLogin string
	AssigneeLogin string // пусто, если никто не назначен
	Status        BugStatus
}
