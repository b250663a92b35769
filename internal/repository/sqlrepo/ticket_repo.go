package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type ticketRepo struct {
	db *sql.DB
}

// NewTicketRepository возвращает sql-реализацию TicketRepository.
func NewTicketRepository(db *sql.DB) repository.TicketRepository {
	return &ticketRepo{db: db}
}

// Save апсертит тикет и синхронизирует набор исполнителей.
func (r *ticketRepo) Save(ctx context.Context, t domain.Ticket) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO tickets (id, project_id, milestone_id, title, status)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE
            SET title = EXCLUDED.title,
                status = EXCLUDED.status
        `, t.ID, t.ProjectID, t.MilestoneID, t.Title, string(t.Status))
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
            DELETE FROM ticket_assignees WHERE ticket_id = $1
        `, t.ID); err != nil {
			return err
		}

		for i, login := range t.AssigneeLogins {
			if _, err := tx.ExecContext(ctx, `
                INSERT INTO ticket_assignees (ticket_id, user_login, seq)
                VALUES ($1, $2, $3)
                ON CONFLICT DO NOTHING
            `, t.ID, login, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID возвращает тикет с исполнителями или domain.ErrNotFound.
func (r *ticketRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error) {
	var t domain.Ticket
	var status string

	err := r.db.QueryRowContext(ctx, `
        SELECT id, project_id, milestone_id, title, status
        FROM tickets
        WHERE id = $1
    `, id).Scan(&t.ID, &t.ProjectID, &t.MilestoneID, &t.Title, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, domain.NotFound("ticket", id)
		}
		return domain.Ticket{}, err
	}
	t.Status = domain.TicketStatus(status)

	t.AssigneeLogins, err = r.getAssignees(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

// ListByMilestone возвращает тикеты вехи по заголовку.
func (r *ticketRepo) ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.Ticket, error) {
	return r.queryTickets(ctx, `
        SELECT id, project_id, milestone_id, title, status
        FROM tickets
        WHERE milestone_id = $1
        ORDER BY title, id
    `, milestoneID)
}

// ListByAssignee возвращает тикеты, на которые назначен пользователь.
func (r *ticketRepo) ListByAssignee(ctx context.Context, login string) ([]domain.Ticket, error) {
	return r.queryTickets(ctx, `
        SELECT t.id, t.project_id, t.milestone_id, t.title, t.status
        FROM tickets t
        JOIN ticket_assignees ta ON ta.ticket_id = t.id
        WHERE ta.user_login = $1
        ORDER BY t.title, t.id
    `, login)
}

// AllDone проверяет, что у вехи нет тикетов не в DONE.
func (r *ticketRepo) AllDone(ctx context.Context, milestoneID uuid.UUID) (bool, error) {
	var pending bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM tickets
            WHERE milestone_id = $1 AND status <> 'DONE'
        )
    `, milestoneID).Scan(&pending)
	if err != nil {
		return false, err
	}
	return !pending, nil
}

func (r *ticketRepo) queryTickets(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		var status string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.MilestoneID, &t.Title, &status); err != nil {
			closeRows(rows)
			return nil, err
		}
		t.Status = domain.TicketStatus(status)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return nil, err
	}
	closeRows(rows)

	for i := range tickets {
		assignees, err := r.getAssignees(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tickets[i].AssigneeLogins = assignees
	}
	return tickets, nil
}

// getAssignees возвращает исполнителей тикета в порядке назначения.
func (r *ticketRepo) getAssignees(ctx context.Context, ticketID uuid.UUID) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT user_login
        FROM ticket_assignees
        WHERE ticket_id = $1
        ORDER BY seq
    `, ticketID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	assignees := make([]string, 0)
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		assignees = append(assignees, login)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignees, nil
}
