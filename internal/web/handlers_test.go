package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/school-rewards-web/internal/models"
)

func testServer() *Server {
	gin.SetMode(gin.TestMode)
	return &Server{render: JSONRenderer{}, log: zap.NewNop().Sugar()}
}

func jsonContext(t *testing.T, method, path, body string, u *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if u != nil {
		c.Set(ctxActorKey, u)
	}
	return c, w
}

func TestRequireRoleJSONForbidden(t *testing.T) {
	s := testServer()
	c, w := jsonContext(t, "POST", "/api/filter/students", "", &models.User{ID: 1, Role: models.Student})

	s.requireRole(models.Admin)(c)
	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Доступ запрещен", resp["error"])
}

func TestRequireRoleHTMLRedirects(t *testing.T) {
	s := testServer()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/admin/users", nil)
	c.Set(ctxActorKey, &models.User{ID: 1, Role: models.Teacher})

	s.requireRole(models.Admin)(c)
	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequireRolePasses(t *testing.T) {
	s := testServer()
	c, _ := jsonContext(t, "GET", "/admin/users", "", &models.User{ID: 1, Role: models.Admin})
	s.requireRole(models.Admin)(c)
	require.False(t, c.IsAborted())
}

func TestTeacherBulkGrantRejectsBadPayload(t *testing.T) {
	s := testServer()
	teacher := &models.User{ID: 2, Role: models.Teacher}

	for _, body := range []string{
		``,
		`{}`,
		`[1, 2]`,
		`{"7": "x"}`,
		`{"abc": [{"reason_id": 1}]}`,
		`{"5": []}`,
	} {
		c, w := jsonContext(t, "POST", "/teacher/students", body, teacher)
		s.teacherBulkGrant(c)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, false, resp["success"])
	}
}

// Тело карты "ученик → причины" должно проходить разбор; с недоступной
// базой запрос падает дальше валидации, а не на ней.
func TestTeacherBulkGrantParsesDocumentedBody(t *testing.T) {
	s := testServer()
	lazy, err := sql.Open("pgx", "postgres://127.0.0.1:1/unreachable")
	require.NoError(t, err)
	defer func() { _ = lazy.Close() }()
	s.db = lazy
	teacher := &models.User{ID: 2, Role: models.Teacher}

	c, w := jsonContext(t, "POST", "/teacher/students",
		`{"7": [{"reason_id": 1}, {"reason_id": 2}]}`, teacher)
	s.teacherBulkGrant(c)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEqual(t, "Неверный формат данных", resp["error"])
}

func TestBuyProductBadID(t *testing.T) {
	s := testServer()
	c, w := jsonContext(t, "POST", "/student/shop/buy/abc", "", &models.User{ID: 3, Role: models.Student})
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	s.buyProduct(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRewardReasonsOrderBadPayload(t *testing.T) {
	s := testServer()
	admin := &models.User{ID: 1, Role: models.Admin}

	// ожидается именно массив, объект-обёртка — ошибка формата
	for _, body := range []string{`not json`, `{"items": []}`, `{}`} {
		c, w := jsonContext(t, "POST", "/admin/reward_reasons/update_order", body, admin)
		s.updateRewardReasonsOrder(c)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

// Чужая роль получает тихий редирект раньше любого обращения к базе:
// по кодам ответа нельзя выяснить, какие id существуют.
func TestUserDetailForeignRoleRedirectsBeforeLookup(t *testing.T) {
	s := testServer() // db == nil: до хранилища дойти не должны

	r := gin.New()
	r.Use(sessions.Sessions("school_session", cookie.NewStore([]byte("test"))))
	r.GET("/admin/users/:id", func(c *gin.Context) {
		c.Set(ctxActorKey, &models.User{ID: 9, Role: models.Student})
		s.userDetail(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/users/999999", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestJSONRendererAddsViewName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	JSONRenderer{}.HTML(c, http.StatusOK, "student/shop", gin.H{"products": []int{}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "student/shop", resp["view"])
}
