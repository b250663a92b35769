package domain

// Графы переходов линейные: из каждого статуса ровно один шаг вперёд,
// терминальный статус отсутствует в таблице.
var (
	milestoneNext = map[MilestoneStatus]MilestoneStatus{
		MilestoneOpen:   MilestoneActive,
		MilestoneActive: MilestoneClosed,
	}

	ticketNext = map[TicketStatus]TicketStatus{
		TicketNew:        TicketAccepted,
		TicketAccepted:   TicketInProgress,
		TicketInProgress: TicketDone,
	}

	bugNext = map[BugStatus]BugStatus{
		BugNew:    BugFixed,
		BugFixed:  BugTested,
		BugTested: BugClosed,
	}
)

// CanTransitionTo: to является непосредственным следующим статусом.
func (s MilestoneStatus) CanTransitionTo(to MilestoneStatus) bool {
	next, ok := milestoneNext[s]
	return ok && next == to
}

// CanTransitionTo: to является непосредственным следующим статусом.
func (s TicketStatus) CanTransitionTo(to TicketStatus) bool {
	next, ok := ticketNext[s]
	return ok && next == to
}

// CanTransitionTo: to является непосредственным следующим статусом.
func (s BugStatus) CanTransitionTo(to BugStatus) bool {
	next, ok := bugNext[s]
	return ok && next == to
}

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestoneOpen, MilestoneActive, MilestoneClosed:
		return true
	}
	return false
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketNew, TicketAccepted, TicketInProgress, TicketDone:
		return true
	}
	return false
}

func (s BugStatus) Valid() bool {
	switch s {
	case BugNew, BugFixed, BugTested, BugClosed:
		return true
	}
	return false
}
