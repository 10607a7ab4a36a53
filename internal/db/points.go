package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Spok95/school-rewards-web/internal/models"
)

// AddPoints начисляет баллы: растут и баланс, и накопленный итог,
// в журнал пишется ровно одна строка с положительной дельтой.
func AddPoints(ctx context.Context, database *sql.DB, userID int64, points int, reason string, changedBy int64) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points + $1, earned_points = earned_points + $1 WHERE id = $2`,
		points, userID)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	if err := insertHistory(ctx, tx, userID, points, reason, changedBy); err != nil {
		return err
	}
	return tx.Commit()
}

// RemovePoints списывает баллы только с баланса; earned_points не
// трогаем. При нехватке баллов — отказ без записи в журнал.
func RemovePoints(ctx context.Context, database *sql.DB, userID int64, points int, reason string, changedBy int64) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1`,
		points, userID)
	if err != nil {
		return fmt.Errorf("remove points: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// либо пользователя нет, либо не хватает баллов
		if _, err := GetUserByID(ctx, database, userID); err != nil {
			return err
		}
		return ErrInsufficientPoints
	}
	if err := insertHistory(ctx, tx, userID, -points, reason, changedBy); err != nil {
		return err
	}
	return tx.Commit()
}

func insertHistory(ctx context.Context, tx *sql.Tx, userID int64, change int, reason string, changedBy int64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO points_history (user_id, points_change, reason, changed_by_id) VALUES ($1, $2, $3, $4)`,
		userID, change, reason, changedBy); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListHistory — журнал пользователя от новых к старым; limit <= 0
// означает «всё».
func ListHistory(ctx context.Context, database *sql.DB, userID int64, limit int) ([]models.PointsHistory, error) {
	query := `
SELECT h.id, h.user_id, h.points_change, h.reason, h.changed_by_id,
       COALESCE(a.first_name || ' ' || a.last_name, ''), h.created_at
FROM points_history h
LEFT JOIN users a ON a.id = h.changed_by_id
WHERE h.user_id = $1
ORDER BY h.created_at DESC, h.id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.PointsHistory
	for rows.Next() {
		var h models.PointsHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.PointsChange, &h.Reason, &h.ChangedByID, &h.ChangedByName, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// BulkGrantResult — итог массового начисления.
type BulkGrantResult struct {
	StudentsUpdated int
	TotalPoints     int
}

// BulkGrant применяет выбор причин к каждому ученику независимо:
// суммирует баллы отмеченных причин и начисляет их одним грантом с
// составным комментарием (одна строка журнала на ученика). Чужие и
// несуществующие ученики, как и неизвестные причины, молча
// пропускаются — неудача одного не мешает остальным.
func BulkGrant(ctx context.Context, database *sql.DB, teacherID int64, grants map[int64][]int64) (BulkGrantResult, error) {
	var res BulkGrantResult
	for studentID, reasonIDs := range grants {
		student, err := GetUserByID(ctx, database, studentID)
		if err != nil || student.Role != models.Student || student.GroupID == nil {
			continue
		}
		group, err := GetGroupByID(ctx, database, *student.GroupID)
		if err != nil || group.TeacherID == nil || *group.TeacherID != teacherID {
			continue
		}

		points := 0
		var labels []string
		for _, rid := range reasonIDs {
			reason, err := GetRewardReason(ctx, database, rid)
			if err != nil {
				continue
			}
			points += reason.Points
			labels = append(labels, reason.Reason)
		}
		if points <= 0 {
			continue
		}

		comment := "Массовое начисление: " + strings.Join(labels, ", ")
		if err := AddPoints(ctx, database, studentID, points, comment, teacherID); err != nil {
			continue
		}
		res.StudentsUpdated++
		res.TotalPoints += points
	}
	return res, nil
}
