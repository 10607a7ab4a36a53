//go:build testutil
// +build testutil

package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
	"github.com/Spok95/school-rewards-web/internal/testutil/testdb"
)

var (
	itDB  *sql.DB
	itSeq atomic.Int64
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "testdb:", err)
		os.Exit(1)
	}
	itDB = h.DB
	code := m.Run()
	h.Close()
	os.Exit(code)
}

func itServer() *Server {
	gin.SetMode(gin.TestMode)
	return &Server{db: itDB, render: JSONRenderer{}, log: zap.NewNop().Sugar()}
}

func itUser(t *testing.T, role models.Role, groupID *int64) *models.User {
	t.Helper()
	u := &models.User{
		Username:     fmt.Sprintf("%s_%d", role, itSeq.Add(1)),
		PasswordHash: "x",
		FirstName:    "Тест",
		LastName:     string(role),
		Role:         role,
		GroupID:      groupID,
	}
	id, err := db.CreateUser(context.Background(), itDB, u)
	require.NoError(t, err)
	u.ID = id
	return u
}

func itJSON(t *testing.T, method, path, body string, actor *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(ctxActorKey, actor)
	return c, w
}

// Карта "ученик → список объектов с reason_id" — рабочее тело массового
// начисления.
func TestTeacherBulkGrantDocumentedBody(t *testing.T) {
	ctx := context.Background()
	s := itServer()

	teacher := itUser(t, models.Teacher, nil)
	groupID, err := db.CreateGroup(ctx, itDB, fmt.Sprintf("Группа_%d", itSeq.Add(1)), &teacher.ID)
	require.NoError(t, err)
	student := itUser(t, models.Student, &groupID)

	r1, err := db.CreateRewardReason(ctx, itDB, fmt.Sprintf("Домашка_%d", itSeq.Add(1)), 10)
	require.NoError(t, err)
	r2, err := db.CreateRewardReason(ctx, itDB, fmt.Sprintf("Активность_%d", itSeq.Add(1)), 5)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"%d": [{"reason_id": %d}, {"reason_id": %d}]}`, student.ID, r1, r2)
	c, w := itJSON(t, "POST", "/teacher/students", body, teacher)
	s.teacherBulkGrant(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])

	got, err := db.GetUserByID(ctx, itDB, student.ID)
	require.NoError(t, err)
	require.Equal(t, 15, got.Points)
	require.Equal(t, 15, got.EarnedPoints)
}

// Тело перестановки причин — голый JSON-массив пар {id, order}.
func TestUpdateRewardReasonsOrderDocumentedBody(t *testing.T) {
	ctx := context.Background()
	s := itServer()
	admin := itUser(t, models.Admin, nil)

	id1, err := db.CreateRewardReason(ctx, itDB, fmt.Sprintf("Причина_%d", itSeq.Add(1)), 1)
	require.NoError(t, err)
	id2, err := db.CreateRewardReason(ctx, itDB, fmt.Sprintf("Причина_%d", itSeq.Add(1)), 2)
	require.NoError(t, err)

	body := fmt.Sprintf(`[{"id": %d, "order": 1}, {"id": %d, "order": 2}]`, id2, id1)
	c, w := itJSON(t, "POST", "/admin/reward_reasons/update_order", body, admin)
	s.updateRewardReasonsOrder(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])

	reasons, err := db.ListRewardReasons(ctx, itDB)
	require.NoError(t, err)
	pos := make(map[int64]int, len(reasons))
	for i, r := range reasons {
		pos[r.ID] = i
	}
	require.Less(t, pos[id2], pos[id1])
}
