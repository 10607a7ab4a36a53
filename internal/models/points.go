package models

import "time"

// PointsHistory — неизменяемая запись журнала баллов: кому, сколько
// (со знаком), за что и кто начислил.
type PointsHistory struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	PointsChange int       `db:"points_change"`
	Reason       string    `db:"reason"`
	ChangedByID  *int64    `db:"changed_by_id"`
	CreatedAt    time.Time `db:"created_at"`

	ChangedByName string
}

type RewardReason struct {
	ID        int64     `db:"id"`
	Reason    string    `db:"reason"`
	Points    int       `db:"points"`
	SortOrder int       `db:"sort_order"`
	CreatedAt time.Time `db:"created_at"`
}

// ReasonOrder — элемент пакетной перестановки причин из JSON-запроса.
type ReasonOrder struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}
