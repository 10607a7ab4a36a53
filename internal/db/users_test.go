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

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	u := mustUser(t, models.Student, nil)

	_, err := db.CreateUser(ctx, testDB, &models.User{
		Username:     u.Username,
		PasswordHash: "x",
		FirstName:    "Дубль",
		LastName:     "Дубль",
		Role:         models.Student,
	})
	require.ErrorIs(t, err, db.ErrUsernameTaken)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	group := mustGroup(t, nil)
	u := mustUser(t, models.Student, nil)

	u.FirstName = "Новое"
	u.GroupID = &group
	require.NoError(t, db.UpdateUser(ctx, testDB, u))

	got, err := db.GetUserByID(ctx, testDB, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Новое", got.FirstName)
	require.NotNil(t, got.GroupID)
	require.Equal(t, group, *got.GroupID)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	teacher := mustUser(t, models.Teacher, nil)
	group := mustGroup(t, &teacher.ID)
	student := mustUser(t, models.Student, &group)

	grantPoints(t, student.ID, 100, admin.ID)
	productID := mustProduct(t, 10, 5)
	_, orderID, err := db.Purchase(ctx, testDB, student.ID, productID)
	require.NoError(t, err)

	require.NoError(t, db.DeleteUser(ctx, testDB, student.ID))
	_, err = db.GetUserByID(ctx, testDB, student.ID)
	require.ErrorIs(t, err, db.ErrNotFound)
	_, err = db.GetOrderByID(ctx, testDB, orderID)
	require.ErrorIs(t, err, db.ErrNotFound)

	// удаление преподавателя освобождает его группы
	require.NoError(t, db.DeleteUser(ctx, testDB, teacher.ID))
	g, err := db.GetGroupByID(ctx, testDB, group)
	require.NoError(t, err)
	require.Nil(t, g.TeacherID)
}

func TestDeleteActorKeepsHistoryRow(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	student := mustUser(t, models.Student, nil)
	grantPoints(t, student.ID, 50, admin.ID)

	require.NoError(t, db.DeleteUser(ctx, testDB, admin.ID))

	hs, err := db.ListHistory(ctx, testDB, student.ID, 0)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	require.Nil(t, hs[0].ChangedByID)
	require.Equal(t, "", hs[0].ChangedByName)
}

func TestDeleteGroupDetachesStudents(t *testing.T) {
	ctx := context.Background()
	group := mustGroup(t, nil)
	student := mustUser(t, models.Student, &group)

	require.NoError(t, db.DeleteGroup(ctx, testDB, group))

	got, err := db.GetUserByID(ctx, testDB, student.ID)
	require.NoError(t, err)
	require.Nil(t, got.GroupID)
}

func TestListGroupStudentsOrderedByEarned(t *testing.T) {
	ctx := context.Background()
	admin := mustUser(t, models.Admin, nil)
	group := mustGroup(t, nil)
	low := mustUser(t, models.Student, &group)
	high := mustUser(t, models.Student, &group)
	grantPoints(t, low.ID, 10, admin.ID)
	grantPoints(t, high.ID, 90, admin.ID)

	students, err := db.ListGroupStudents(ctx, testDB, group)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, high.ID, students[0].ID)
	require.Equal(t, low.ID, students[1].ID)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	before, err := db.GetDashboardStats(ctx, testDB)
	require.NoError(t, err)

	mustUser(t, models.Student, nil)
	after, err := db.GetDashboardStats(ctx, testDB)
	require.NoError(t, err)
	require.Equal(t, before.TotalStudents+1, after.TotalStudents)
	require.Equal(t, before.TotalUsers+1, after.TotalUsers)
}
