//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
	"github.com/Spok95/school-rewards-web/internal/testutil/testdb"
)

var (
	testDB *sql.DB
	seq    atomic.Int64
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "testdb:", err)
		os.Exit(1)
	}
	testDB = h.DB
	code := m.Run()
	h.Close()
	os.Exit(code)
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, seq.Add(1))
}

func mustUser(t *testing.T, role models.Role, groupID *int64) *models.User {
	t.Helper()
	u := &models.User{
		Username:     uniq(string(role)),
		PasswordHash: "x",
		FirstName:    "Тест",
		LastName:     string(role),
		Role:         role,
		GroupID:      groupID,
	}
	id, err := db.CreateUser(context.Background(), testDB, u)
	require.NoError(t, err)
	u.ID = id
	return u
}

func mustGroup(t *testing.T, teacherID *int64) int64 {
	t.Helper()
	id, err := db.CreateGroup(context.Background(), testDB, uniq("Группа"), teacherID)
	require.NoError(t, err)
	return id
}

func mustProduct(t *testing.T, price, quantity int) int64 {
	t.Helper()
	id, err := db.CreateProduct(context.Background(), testDB, &models.Product{
		Name:          uniq("Товар"),
		Price:         price,
		OriginalPrice: price,
		Quantity:      quantity,
		Category:      "Тест",
	})
	require.NoError(t, err)
	return id
}

func grantPoints(t *testing.T, userID int64, points int, by int64) {
	t.Helper()
	require.NoError(t, db.AddPoints(context.Background(), testDB, userID, points, "за тест", by))
}

func balance(t *testing.T, userID int64) (points, earned int) {
	t.Helper()
	u, err := db.GetUserByID(context.Background(), testDB, userID)
	require.NoError(t, err)
	return u.Points, u.EarnedPoints
}

func historyCount(t *testing.T, userID int64) int {
	t.Helper()
	hs, err := db.ListHistory(context.Background(), testDB, userID, 0)
	require.NoError(t, err)
	return len(hs)
}
