package web

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/ctxutil"
)

// flash хранит сообщения в сессии как "категория|текст" — ровно до
// следующего показа страницы.
func (s *Server) flash(c *gin.Context, category, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(category + "|" + message)
	if err := sess.Save(); err != nil {
		s.log.Warnw("flash save failed", "err", err)
	}
}

func (s *Server) takeFlashes(c *gin.Context) []gin.H {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save()
	}
	out := make([]gin.H, 0, len(raw))
	for _, f := range raw {
		str, ok := f.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(str, "|")
		if !found {
			category, message = "info", str
		}
		out = append(out, gin.H{"category": category, "message": message})
	}
	return out
}

// view дополняет view-модель тем, что нужно каждой странице.
func (s *Server) view(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["flashes"] = s.takeFlashes(c)
	if u := actor(c); u != nil {
		data["current_user"] = gin.H{
			"id":     u.ID,
			"name":   u.FullName(),
			"role":   string(u.Role),
			"points": u.Points,
			"earned": u.EarnedPoints,
		}
	}
	return data
}

func (s *Server) dbCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return ctxutil.WithDBTimeout(c.Request.Context())
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// formInt — строгое целое из формы; вторая булева — «поле валидно».
func formInt(c *gin.Context, name string) (int, bool) {
	v := strings.TrimSpace(c.PostForm(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// roleHome — куда уводить пользователя после входа и с чужих страниц.
func roleHome(role string) string {
	switch role {
	case "admin":
		return "/admin"
	case "teacher":
		return "/teacher"
	default:
		return "/student"
	}
}
