package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type bugRepo struct {
	db *sql.DB
}

// NewBugRepository возвращает sql-реализацию BugRepository.
func NewBugRepository(db *sql.DB) repository.BugRepository {
	return &bugRepo{db: db}
}

// Save апсертит баг-репорт. Автор после создания не перезаписывается.
func (r *bugRepo) Save(ctx context.Context, b domain.BugReport) error {
	var assignee sql.NullString
	if b.AssigneeLogin != "" {
		assignee = sql.NullString{String: b.AssigneeLogin, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO bug_reports (id, project_id, title, reporter_login, assignee_login, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE
        SET title = EXCLUDED.title,
            assignee_login = EXCLUDED.assignee_login,
            status = EXCLUDED.status
    `, b.ID, b.ProjectID, b.Title, b.ReporterLogin, assignee, string(b.Status))
	return err
}

// GetByID возвращает баг-репорт или domain.ErrNotFound.
func (r *bugRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BugReport, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, project_id, title, reporter_login, assignee_login, status
        FROM bug_reports
        WHERE id = $1
    `, id)

	b, err := scanBug(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BugReport{}, domain.NotFound("bug", id)
		}
		return domain.BugReport{}, err
	}
	return b, nil
}

// ListByProject возвращает баги проекта по заголовку.
func (r *bugRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BugReport, error) {
	return r.queryBugs(ctx, `
        SELECT id, project_id, title, reporter_login, assignee_login, status
        FROM bug_reports
        WHERE project_id = $1
        ORDER BY title, id
    `, projectID)
}

// ListByAssignee возвращает баги, назначенные на пользователя.
func (r *bugRepo) ListByAssignee(ctx context.Context, login string) ([]domain.BugReport, error) {
	return r.queryBugs(ctx, `
        SELECT id, project_id, title, reporter_login, assignee_login, status
        FROM bug_reports
        WHERE assignee_login = $1
        ORDER BY title, id
    `, login)
}

// ListByStatus возвращает баги проекта в заданном статусе.
func (r *bugRepo) ListByStatus(ctx context.Context, projectID uuid.UUID, status domain.BugStatus) ([]domain.BugReport, error) {
	return r.queryBugs(ctx, `
        SELECT id, project_id, title, reporter_login, assignee_login, status
        FROM bug_reports
        WHERE project_id = $1 AND status = $2
        ORDER BY title, id
    `, projectID, string(status))
}

func (r *bugRepo) queryBugs(ctx context.Context, query string, args ...any) ([]domain.BugReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	bugs := make([]domain.BugReport, 0)
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bugs, nil
}

func scanBug(s scanner) (domain.BugReport, error) {
	var b domain.BugReport
	var assignee sql.NullString
	var status string

	if err := s.Scan(&b.ID, &b.ProjectID, &b.Title, &b.ReporterLogin, &assignee, &status); err != nil {
		return domain.BugReport{}, err
	}
	if assignee.Valid {
		b.AssigneeLogin = assignee.String
	}
	b.Status = domain.BugStatus(status)
	return b, nil
}
