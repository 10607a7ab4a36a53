package models

type Group struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	TeacherID *int64 `db:"teacher_id"`

	// TeacherName и StudentCount заполняются join-запросами списков,
	// в самой таблице их нет.
	TeacherName  string
	StudentCount int
}
