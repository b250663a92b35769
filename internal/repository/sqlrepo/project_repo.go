package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type projectRepo struct {
	db *sql.DB
}

// NewProjectRepository возвращает sql-реализацию ProjectRepository.
func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &projectRepo{db: db}
}

// Save апсертит проект и целиком переписывает его состав.
func (r *projectRepo) Save(ctx context.Context, p domain.Project) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO projects (id, name, manager_login)
            VALUES ($1, $2, $3)
            ON CONFLICT (id) DO UPDATE
            SET name = EXCLUDED.name,
                manager_login = EXCLUDED.manager_login
        `, p.ID, p.Name, p.ManagerLogin)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
            DELETE FROM project_members WHERE project_id = $1
        `, p.ID); err != nil {
			return err
		}

		insert := func(login string, role domain.Role, seq int) error {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO project_members (project_id, user_login, role, seq)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT DO NOTHING
            `, p.ID, login, string(role), seq)
			return err
		}

		if p.TeamLeaderLogin != "" {
			if err := insert(p.TeamLeaderLogin, domain.RoleTeamLeader, 0); err != nil {
				return err
			}
		}
		for i, login := range p.DeveloperLogins {
			if err := insert(login, domain.RoleDeveloper, i); err != nil {
				return err
			}
		}
		for i, login := range p.TesterLogins {
			if err := insert(login, domain.RoleTester, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID возвращает проект с участниками или domain.ErrNotFound.
func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, manager_login
        FROM projects
        WHERE id = $1
    `, id).Scan(&p.ID, &p.Name, &p.ManagerLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, domain.NotFound("project", id)
		}
		return domain.Project{}, err
	}

	if err := r.loadMembers(ctx, &p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// Exists проверяет, есть ли проект с таким id.
func (r *projectRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM projects WHERE id = $1
        )
    `, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List возвращает все проекты.
func (r *projectRepo) List(ctx context.Context) ([]domain.Project, error) {
	return r.queryProjects(ctx, `
        SELECT id, name, manager_login
        FROM projects
        ORDER BY name, id
    `)
}

// ListByUser возвращает проекты, в которых пользователь менеджер или участник.
func (r *projectRepo) ListByUser(ctx context.Context, login string) ([]domain.Project, error) {
	return r.queryProjects(ctx, `
        SELECT DISTINCT p.id, p.name, p.manager_login
        FROM projects p
        LEFT JOIN project_members pm ON pm.project_id = p.id
        WHERE p.manager_login = $1 OR pm.user_login = $2
        ORDER BY p.name, p.id
    `, login, login)
}

func (r *projectRepo) queryProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.ManagerLogin); err != nil {
			closeRows(rows)
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return nil, err
	}
	// участников догружаем после закрытия курсора: у SQLite в тестах одно соединение
	closeRows(rows)

	for i := range projects {
		if err := r.loadMembers(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *projectRepo) loadMembers(ctx context.Context, p *domain.Project) error {
	rows, err := r.db.QueryContext(ctx, `
        SELECT user_login, role
        FROM project_members
        WHERE project_id = $1
        ORDER BY seq
    `, p.ID)
	if err != nil {
		return err
	}
	defer closeRows(rows)

	p.TeamLeaderLogin = ""
	p.DeveloperLogins = make([]string, 0)
	p.TesterLogins = make([]string, 0)

	for rows.Next() {
		var login, role string
		if err := rows.Scan(&login, &role); err != nil {
			return err
		}
		switch domain.Role(role) {
		case domain.RoleTeamLeader:
			p.TeamLeaderLogin = login
		case domain.RoleDeveloper:
			p.DeveloperLogins = append(p.DeveloperLogins, login)
		case domain.RoleTester:
			p.TesterLogins = append(p.TesterLogins, login)
		}
	}
	return rows.Err()
}
