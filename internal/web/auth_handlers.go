package web

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/auth"
	"github.com/Spok95/school-rewards-web/internal/db"
)

func (s *Server) index(c *gin.Context) {
	if u := actor(c); u != nil {
		c.Redirect(http.StatusFound, roleHome(string(u.Role)))
		return
	}
	s.render.HTML(c, http.StatusOK, "login", s.view(c, gin.H{}))
}

func (s *Server) loginForm(c *gin.Context) {
	s.index(c)
}

func (s *Server) login(c *gin.Context) {
	if u := actor(c); u != nil {
		c.Redirect(http.StatusFound, roleHome(string(u.Role)))
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	// одновременные попытки по одному логину идут по очереди
	unlock := s.limiter.Lock(username)
	defer unlock()

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	user, err := db.GetUserByUsername(ctx, s.db, username)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.serverError(c, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.flash(c, "error", "Неверный логин или пароль")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		s.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, roleHome(string(user.Role)))
}

func (s *Server) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Delete(sessionUserKey)
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/")
}
