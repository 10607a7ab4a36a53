package models

import "time"

type Tip struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	UpdatedAt time.Time `db:"updated_at"`
}

type TipItem struct {
	ID        int64     `db:"id"`
	Reason    string    `db:"reason"`
	Points    int       `db:"points"`
	CreatedAt time.Time `db:"created_at"`
}
