package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-rewards-web/internal/models"
)

func student(id int64, name string, earned int) models.User {
	return models.User{ID: id, FirstName: name, EarnedPoints: earned}
}

func TestAssignNumbersFromOne(t *testing.T) {
	// выборка уже отсортирована по убыванию накопленных баллов
	in := []models.User{
		student(1, "X", 300),
		student(3, "Z", 300),
		student(2, "Y", 100),
	}
	out := Assign(in)
	require.Len(t, out, 3)
	require.Equal(t, 1, out[0].Position)
	require.Equal(t, int64(1), out[0].ID)
	// при равных баллах позиции идут в порядке выборки
	require.Equal(t, 2, out[1].Position)
	require.Equal(t, int64(3), out[1].ID)
	require.Equal(t, 3, out[2].Position)
	require.Equal(t, int64(2), out[2].ID)
}

func TestAssignEmpty(t *testing.T) {
	require.Empty(t, Assign(nil))
}

func TestPositionOf(t *testing.T) {
	in := []models.User{student(5, "A", 50), student(7, "B", 20)}
	require.Equal(t, 1, PositionOf(in, 5))
	require.Equal(t, 2, PositionOf(in, 7))
	require.Equal(t, 0, PositionOf(in, 42))
}
