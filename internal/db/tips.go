package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/models"
)

// GetTip — единственный блок «как получить больше баллов»; создаётся
// сидом, поэтому отдельного Create нет.
func GetTip(ctx context.Context, database *sql.DB) (*models.Tip, error) {
	var t models.Tip
	err := database.QueryRowContext(ctx,
		`SELECT id, title, content, updated_at FROM tips ORDER BY id LIMIT 1`,
	).Scan(&t.ID, &t.Title, &t.Content, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func UpdateTip(ctx context.Context, database *sql.DB, title, content string) error {
	_, err := database.ExecContext(ctx, `
UPDATE tips SET title = $1, content = $2, updated_at = now()
WHERE id = (SELECT id FROM tips ORDER BY id LIMIT 1)`,
		title, content)
	if err != nil {
		return fmt.Errorf("update tip: %w", err)
	}
	return nil
}

func CreateTipItem(ctx context.Context, database *sql.DB, reason string, points int) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO tip_items (reason, points) VALUES ($1, $2) RETURNING id`,
		reason, points,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert tip item: %w", err)
	}
	return id, nil
}

func UpdateTipItem(ctx context.Context, database *sql.DB, id int64, reason string, points int) error {
	res, err := database.ExecContext(ctx,
		`UPDATE tip_items SET reason = $1, points = $2 WHERE id = $3`,
		reason, points, id)
	if err != nil {
		return fmt.Errorf("update tip item: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteTipItem(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM tip_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tip item: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func ListTipItems(ctx context.Context, database *sql.DB) ([]models.TipItem, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, reason, points, created_at FROM tip_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TipItem
	for rows.Next() {
		var t models.TipItem
		if err := rows.Scan(&t.ID, &t.Reason, &t.Points, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
