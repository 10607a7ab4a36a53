package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/ctxutil"
	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/metrics"
	"github.com/Spok95/school-rewards-web/internal/models"
	"github.com/Spok95/school-rewards-web/internal/observability"
)

const (
	sessionUserKey = "uid"
	ctxActorKey    = "actor"
)

// observe пишет лог и метрики по каждому запросу.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(status)).Inc()
		if status >= http.StatusInternalServerError {
			metrics.HandlerErrors.Inc()
		}
		s.log.Debugw("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", status)
	}
}

// withActor один раз на запрос превращает uid из сессии в пользователя.
// Дальше все проверки ролей работают с готовым актором, а не лазают в
// сессию повторно.
func (s *Server) withActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		v := sess.Get(sessionUserKey)
		if v == nil {
			c.Next()
			return
		}
		uid, ok := v.(int64)
		if !ok {
			c.Next()
			return
		}
		ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
		defer cancel()
		user, err := db.GetUserByID(ctx, s.db, uid)
		if err != nil {
			// протухшая сессия: пользователь удалён
			sess.Delete(sessionUserKey)
			_ = sess.Save()
			c.Next()
			return
		}
		c.Set(ctxActorKey, user)
		c.Request = c.Request.WithContext(ctxutil.WithActorID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func actor(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxActorKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// requireAuth — неаутентифицированных отправляем на форму входа.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
	}
}

// requireRole — ролевая проверка до любых мутаций: HTML-маршруты молча
// уходят на главную, JSON получает явный 403.
func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := actor(c)
		if u == nil || u.Role != role {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен"})
				return
			}
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		}
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	ct := c.GetHeader("Content-Type")
	return strings.HasPrefix(ct, "application/json") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// serverError — неожиданная ошибка хранилища: лог, sentry, метрика и
// общий ответ с причиной.
func (s *Server) serverError(c *gin.Context, err error) {
	actorID, _ := ctxutil.ActorID(c.Request.Context())
	s.log.Errorw("handler error", "path", c.Request.URL.Path, "actor", actorID, "err", err)
	observability.CaptureErr(err)
	metrics.HandlerErrors.Inc()
	if wantsJSON(c) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Ошибка: " + err.Error()})
		return
	}
	s.flash(c, "error", "Ошибка: "+err.Error())
	c.Redirect(http.StatusFound, "/")
}
