//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func TestAddAndRemovePoints(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	student := mustUser(t, models.Student, nil)

	require.NoError(t, db.AddPoints(ctx, testDB, student.ID, 100, "олимпиада", admin.ID))
	points, earned := balance(t, student.ID)
	require.Equal(t, 100, points)
	require.Equal(t, 100, earned)

	// списание уменьшает только баланс, накопленное не трогает
	require.NoError(t, db.RemovePoints(ctx, testDB, student.ID, 30, "штраф", admin.ID))
	points, earned = balance(t, student.ID)
	require.Equal(t, 70, points)
	require.Equal(t, 100, earned)

	hs, err := db.ListHistory(ctx, testDB, student.ID, 0)
	require.NoError(t, err)
	require.Len(t, hs, 2)
	// от новых к старым
	require.Equal(t, -30, hs[0].PointsChange)
	require.Equal(t, 100, hs[1].PointsChange)
	require.Equal(t, admin.FullName(), hs[0].ChangedByName)
}

func TestRemovePointsInsufficientLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	student := mustUser(t, models.Student, nil)
	grantPoints(t, student.ID, 10, admin.ID)

	err := db.RemovePoints(ctx, testDB, student.ID, 50, "много", admin.ID)
	require.ErrorIs(t, err, db.ErrInsufficientPoints)

	points, _ := balance(t, student.ID)
	require.Equal(t, 10, points)
	require.Equal(t, 1, historyCount(t, student.ID))
}

func TestRemovePointsUnknownUser(t *testing.T) {
	admin := mustUser(t, models.Admin, nil)
	err := db.RemovePoints(context.Background(), testDB, 999999, 5, "нет такого", admin.ID)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	student := mustUser(t, models.Student, nil)
	for i := 0; i < 5; i++ {
		grantPoints(t, student.ID, 1, admin.ID)
	}
	hs, err := db.ListHistory(ctx, testDB, student.ID, 3)
	require.NoError(t, err)
	require.Len(t, hs, 3)
}

func TestBulkGrantSkipsForeignStudents(t *testing.T) {
	ctx := context.Background()
	teacher := mustUser(t, models.Teacher, nil)
	other := mustUser(t, models.Teacher, nil)

	myGroup := mustGroup(t, &teacher.ID)
	foreignGroup := mustGroup(t, &other.ID)

	mine := mustUser(t, models.Student, &myGroup)
	foreign := mustUser(t, models.Student, &foreignGroup)

	r1, err := db.CreateRewardReason(ctx, testDB, "Домашка", 10)
	require.NoError(t, err)
	r2, err := db.CreateRewardReason(ctx, testDB, "Активность", 5)
	require.NoError(t, err)

	res, err := db.BulkGrant(ctx, testDB, teacher.ID, map[int64][]int64{
		mine.ID:    {r1, r2},
		foreign.ID: {r1},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.StudentsUpdated)
	require.Equal(t, 15, res.TotalPoints)

	points, earned := balance(t, mine.ID)
	require.Equal(t, 15, points)
	require.Equal(t, 15, earned)

	// одна строка журнала с составной причиной
	hs, err := db.ListHistory(ctx, testDB, mine.ID, 0)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	require.Contains(t, hs[0].Reason, "Массовое начисление")

	require.Equal(t, 0, historyCount(t, foreign.ID))
}

func TestBulkGrantUnknownReasonsIgnored(t *testing.T) {
	ctx := context.Background()
	teacher := mustUser(t, models.Teacher, nil)
	group := mustGroup(t, &teacher.ID)
	student := mustUser(t, models.Student, &group)

	res, err := db.BulkGrant(ctx, testDB, teacher.ID, map[int64][]int64{
		student.ID: {999999},
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.StudentsUpdated)
	require.Equal(t, 0, historyCount(t, student.ID))
}
