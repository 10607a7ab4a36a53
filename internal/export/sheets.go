package export

import (
	"strconv"

	"github.com/Spok95/school-rewards-web/internal/models"
)

// UsersSheets раскладывает пользователей по листам: все, преподаватели,
// ученики. Видимый пароль попадает в выгрузку — лист предназначен
// администратору.
func UsersSheets(users []models.User, groupNames map[int64]string) []SheetSpec {
	header := []string{"ID", "Логин", "Пароль", "Фамилия", "Имя", "Роль", "Группа", "Баланс", "Накоплено"}

	row := func(u models.User) []string {
		pw := ""
		if u.VisiblePassword != nil {
			pw = *u.VisiblePassword
		}
		group := ""
		if u.GroupID != nil {
			group = groupNames[*u.GroupID]
		}
		return []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			pw,
			u.LastName,
			u.FirstName,
			string(u.Role),
			group,
			strconv.Itoa(u.Points),
			strconv.Itoa(u.EarnedPoints),
		}
	}

	var all, teachers, students [][]string
	for _, u := range users {
		r := row(u)
		all = append(all, r)
		switch u.Role {
		case models.Teacher:
			teachers = append(teachers, r)
		case models.Student:
			students = append(students, r)
		}
	}

	return []SheetSpec{
		{Title: "Все", Header: header, Rows: all},
		{Title: "Преподаватели", Header: header, Rows: teachers},
		{Title: "Ученики", Header: header, Rows: students},
	}
}

// HistorySheet — журнал баллов одного пользователя.
func HistorySheet(user *models.User, history []models.PointsHistory) SheetSpec {
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		rows = append(rows, []string{
			h.CreatedAt.Format("02.01.2006 15:04"),
			strconv.Itoa(h.PointsChange),
			h.Reason,
			h.ChangedByName,
		})
	}
	return SheetSpec{
		Title:  user.FullName(),
		Header: []string{"Дата", "Баллы", "Причина", "Кто изменил"},
		Rows:   rows,
	}
}
