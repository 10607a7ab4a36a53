// Package ranking строит рейтинг учеников группы. Рейтинг нигде не
// хранится и каждый раз пересчитывается из свежей выборки.
package ranking

import "github.com/Spok95/school-rewards-web/internal/models"

type RankedStudent struct {
	Position int
	models.User
}

// Assign нумерует учеников с единицы. Список обязан приходить уже
// отсортированным по убыванию earned_points; при равных баллах позиции
// раздаются в порядке выборки, без пересортировки.
func Assign(students []models.User) []RankedStudent {
	out := make([]RankedStudent, 0, len(students))
	for i, s := range students {
		out = append(out, RankedStudent{Position: i + 1, User: s})
	}
	return out
}

// PositionOf — место ученика в списке группы, 0 если его там нет.
func PositionOf(students []models.User, userID int64) int {
	for i, s := range students {
		if s.ID == userID {
			return i + 1
		}
	}
	return 0
}
