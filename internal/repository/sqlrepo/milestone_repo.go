package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type milestoneRepo struct {
	db *sql.DB
}

// NewMilestoneRepository возвращает sql-реализацию MilestoneRepository.
func NewMilestoneRepository(db *sql.DB) repository.MilestoneRepository {
	return &milestoneRepo{db: db}
}

// Save апсертит веху. project_id после создания не меняется.
func (r *milestoneRepo) Save(ctx context.Context, m domain.Milestone) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO milestones (id, project_id, name, start_date, end_date, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            status = EXCLUDED.status
    `, m.ID, m.ProjectID, m.Name, m.StartDate, m.EndDate, string(m.Status))
	return err
}

// GetByID возвращает веху или domain.ErrNotFound.
func (r *milestoneRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Milestone, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, project_id, name, start_date, end_date, status
        FROM milestones
        WHERE id = $1
    `, id)

	m, err := scanMilestone(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Milestone{}, domain.NotFound("milestone", id)
		}
		return domain.Milestone{}, err
	}
	return m, nil
}

// ListByProject возвращает вехи проекта по дате начала.
func (r *milestoneRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, project_id, name, start_date, end_date, status
        FROM milestones
        WHERE project_id = $1
        ORDER BY start_date, name
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	milestones := make([]domain.Milestone, 0)
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return milestones, nil
}

// HasCurrent проверяет, есть ли у проекта веха в OPEN/ACTIVE.
func (r *milestoneRepo) HasCurrent(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM milestones
            WHERE project_id = $1 AND status IN ('OPEN', 'ACTIVE')
        )
    `, projectID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// HasActive проверяет, есть ли у проекта другая ACTIVE-веха.
func (r *milestoneRepo) HasActive(ctx context.Context, projectID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM milestones
            WHERE project_id = $1 AND status = 'ACTIVE' AND id <> $2
        )
    `, projectID, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMilestone(s scanner) (domain.Milestone, error) {
	var m domain.Milestone
	var status string
	if err := s.Scan(&m.ID, &m.ProjectID, &m.Name, &m.StartDate, &m.EndDate, &status); err != nil {
		return domain.Milestone{}, err
	}
	m.Status = domain.MilestoneStatus(status)
	// драйверы возвращают DATE в разных зонах
	m.StartDate = domain.DateOf(m.StartDate)
	m.EndDate = domain.DateOf(m.EndDate)
	return m, nil
}
