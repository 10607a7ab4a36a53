package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, username, password_hash, visible_password, first_name, last_name, role, group_id, points, earned_points, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.VisiblePassword, &u.FirstName, &u.LastName, &u.Role, &u.GroupID, &u.Points, &u.EarnedPoints, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func CreateUser(ctx context.Context, database *sql.DB, u *models.User) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO users (username, password_hash, visible_password, first_name, last_name, role, group_id, points, earned_points)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		u.Username, u.PasswordHash, u.VisiblePassword, u.FirstName, u.LastName, string(u.Role), u.GroupID, u.Points, u.EarnedPoints,
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, ErrUsernameTaken
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func GetUserByID(ctx context.Context, database *sql.DB, id int64) (*models.User, error) {
	row := database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func GetUserByUsername(ctx context.Context, database *sql.DB, username string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// UpdateUser перезаписывает изменяемые колонки целиком; хендлер заранее
// выставляет на структуре только то, что разрешено его роли.
func UpdateUser(ctx context.Context, database *sql.DB, u *models.User) error {
	res, err := database.ExecContext(ctx, `
UPDATE users
SET username = $1, password_hash = $2, visible_password = $3,
    first_name = $4, last_name = $5, role = $6, group_id = $7
WHERE id = $8`,
		u.Username, u.PasswordHash, u.VisiblePassword, u.FirstName, u.LastName, string(u.Role), u.GroupID, u.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser удаляет пользователя. История и заказы уходят каскадом,
// у групп удаляемого преподавателя обнуляется teacher_id.
func DeleteUser(ctx context.Context, database *sql.DB, id int64) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE groups SET teacher_id = NULL WHERE teacher_id = $1`, id); err != nil {
		return fmt.Errorf("clear led groups: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func ListUsers(ctx context.Context, database *sql.DB) ([]models.User, error) {
	return queryUsers(ctx, database, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func ListUsersByRole(ctx context.Context, database *sql.DB, role models.Role) ([]models.User, error) {
	return queryUsers(ctx, database, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, string(role))
}

// ListStudents — ученики, при groupID != nil только выбранной группы.
func ListStudents(ctx context.Context, database *sql.DB, groupID *int64) ([]models.User, error) {
	if groupID != nil {
		return queryUsers(ctx, database, `SELECT `+userColumns+` FROM users WHERE role = 'student' AND group_id = $1 ORDER BY id`, *groupID)
	}
	return queryUsers(ctx, database, `SELECT `+userColumns+` FROM users WHERE role = 'student' ORDER BY id`)
}

// ListGroupStudents — ученики группы в порядке убывания накопленных
// баллов; при равенстве сохраняется порядок добавления (id). На этом
// порядке строится рейтинг.
func ListGroupStudents(ctx context.Context, database *sql.DB, groupID int64) ([]models.User, error) {
	return queryUsers(ctx, database, `
SELECT `+userColumns+` FROM users
WHERE role = 'student' AND group_id = $1
ORDER BY earned_points DESC, id`, groupID)
}

func queryUsers(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.VisiblePassword, &u.FirstName, &u.LastName, &u.Role, &u.GroupID, &u.Points, &u.EarnedPoints, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type DashboardStats struct {
	TotalUsers    int
	TotalStudents int
	TotalTeachers int
	TotalProducts int
	PendingOrders int
}

func GetDashboardStats(ctx context.Context, database *sql.DB) (*DashboardStats, error) {
	var s DashboardStats
	err := database.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM users),
    (SELECT COUNT(*) FROM users WHERE role = 'student'),
    (SELECT COUNT(*) FROM users WHERE role = 'teacher'),
    (SELECT COUNT(*) FROM products),
    (SELECT COUNT(*) FROM orders WHERE status = 'pending')`,
	).Scan(&s.TotalUsers, &s.TotalStudents, &s.TotalTeachers, &s.TotalProducts, &s.PendingOrders)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}
