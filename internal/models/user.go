package models

import "time"

type Role string

const (
	Admin   Role = "admin"
	Teacher Role = "teacher"
	Student Role = "student"
)

// Valid проверяет, что роль из формы — одна из трёх известных.
func (r Role) Valid() bool {
	return r == Admin || r == Teacher || r == Student
}

type User struct {
	ID              int64      `db:"id"`
	Username        string     `db:"username"`
	PasswordHash    string     `db:"password_hash"`
	VisiblePassword *string    `db:"visible_password"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Role            Role       `db:"role"`
	GroupID         *int64     `db:"group_id"`
	Points          int        `db:"points"`
	EarnedPoints    int        `db:"earned_points"`
	CreatedAt       time.Time  `db:"created_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
