package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/models"
)

func CreateGroup(ctx context.Context, database *sql.DB, name string, teacherID *int64) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO groups (name, teacher_id) VALUES ($1, $2) RETURNING id`,
		name, teacherID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert group: %w", err)
	}
	return id, nil
}

func GetGroupByID(ctx context.Context, database *sql.DB, id int64) (*models.Group, error) {
	var g models.Group
	err := database.QueryRowContext(ctx,
		`SELECT id, name, teacher_id FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.TeacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func UpdateGroup(ctx context.Context, database *sql.DB, id int64, name string, teacherID *int64) error {
	res, err := database.ExecContext(ctx,
		`UPDATE groups SET name = $1, teacher_id = $2 WHERE id = $3`,
		name, teacherID, id)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroup удаляет группу и отвязывает её учеников; сами ученики
// остаются.
func DeleteGroup(ctx context.Context, database *sql.DB, id int64) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE users SET group_id = NULL WHERE group_id = $1`, id); err != nil {
		return fmt.Errorf("detach students: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ListGroups — все группы с именем преподавателя и числом учеников.
func ListGroups(ctx context.Context, database *sql.DB) ([]models.Group, error) {
	return queryGroups(ctx, database, `
SELECT g.id, g.name, g.teacher_id,
       COALESCE(t.first_name || ' ' || t.last_name, ''),
       (SELECT COUNT(*) FROM users u WHERE u.group_id = g.id AND u.role = 'student')
FROM groups g
LEFT JOIN users t ON t.id = g.teacher_id
ORDER BY g.name`)
}

// ListGroupsByTeacher — группы, закреплённые за преподавателем.
func ListGroupsByTeacher(ctx context.Context, database *sql.DB, teacherID int64) ([]models.Group, error) {
	return queryGroups(ctx, database, `
SELECT g.id, g.name, g.teacher_id,
       COALESCE(t.first_name || ' ' || t.last_name, ''),
       (SELECT COUNT(*) FROM users u WHERE u.group_id = g.id AND u.role = 'student')
FROM groups g
LEFT JOIN users t ON t.id = g.teacher_id
WHERE g.teacher_id = $1
ORDER BY g.name`, teacherID)
}

func queryGroups(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.Group, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.TeacherID, &g.TeacherName, &g.StudentCount); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
