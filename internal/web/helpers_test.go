package web

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func formContext(t *testing.T, form string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("POST", "/", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestRoleHome(t *testing.T) {
	require.Equal(t, "/admin", roleHome("admin"))
	require.Equal(t, "/teacher", roleHome("teacher"))
	require.Equal(t, "/student", roleHome("student"))
	require.Equal(t, "/student", roleHome(""))
}

func TestFormInt(t *testing.T) {
	c := formContext(t, "points=15&neg=-3&word=abc&empty=&spaced=+7+")

	n, ok := formInt(c, "points")
	require.True(t, ok)
	require.Equal(t, 15, n)

	_, ok = formInt(c, "neg")
	require.False(t, ok)
	_, ok = formInt(c, "word")
	require.False(t, ok)
	_, ok = formInt(c, "empty")
	require.False(t, ok)
	_, ok = formInt(c, "missing")
	require.False(t, ok)

	n, ok = formInt(c, "spaced")
	require.True(t, ok)
	require.Equal(t, 7, n)
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := paramID(c, "id")
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok = paramID(c, "id")
	require.False(t, ok)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = paramID(c, "id")
	require.False(t, ok)
}

func TestWantsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mk := func(path, accept, contentType string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("GET", path, nil)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		c.Request = req
		return c
	}

	require.True(t, wantsJSON(mk("/api/filter/students", "", "")))
	require.True(t, wantsJSON(mk("/teacher/students", "application/json", "")))
	require.True(t, wantsJSON(mk("/teacher/students", "", "application/json")))
	require.False(t, wantsJSON(mk("/admin/users", "text/html", "")))
}
