package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-rewards-web/internal/models"
)

// CreateRewardReason добавляет причину в конец списка: max(order)+1.
func CreateRewardReason(ctx context.Context, database *sql.DB, reason string, points int) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO reward_reasons (reason, points, sort_order)
VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM reward_reasons))
RETURNING id`,
		reason, points,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert reward reason: %w", err)
	}
	return id, nil
}

func GetRewardReason(ctx context.Context, database *sql.DB, id int64) (*models.RewardReason, error) {
	var r models.RewardReason
	err := database.QueryRowContext(ctx,
		`SELECT id, reason, points, sort_order, created_at FROM reward_reasons WHERE id = $1`, id,
	).Scan(&r.ID, &r.Reason, &r.Points, &r.SortOrder, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateRewardReason(ctx context.Context, database *sql.DB, id int64, reason string, points int) error {
	res, err := database.ExecContext(ctx,
		`UPDATE reward_reasons SET reason = $1, points = $2 WHERE id = $3`,
		reason, points, id)
	if err != nil {
		return fmt.Errorf("update reward reason: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteRewardReason(ctx context.Context, database *sql.DB, id int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM reward_reasons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reward reason: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func ListRewardReasons(ctx context.Context, database *sql.DB) ([]models.RewardReason, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, reason, points, sort_order, created_at FROM reward_reasons ORDER BY sort_order, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.RewardReason
	for rows.Next() {
		var r models.RewardReason
		if err := rows.Scan(&r.ID, &r.Reason, &r.Points, &r.SortOrder, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReorderRewardReasons применяет присланные пары (id, order) одной
// транзакцией. Неизвестные id молча пропускаются, чтобы устаревший
// клиентский список не превращался в ошибку.
func ReorderRewardReasons(ctx context.Context, database *sql.DB, items []models.ReasonOrder) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE reward_reasons SET sort_order = $1 WHERE id = $2`,
			it.Order, it.ID); err != nil {
			return fmt.Errorf("reorder reason %d: %w", it.ID, err)
		}
	}
	return tx.Commit()
}
