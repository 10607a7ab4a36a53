package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
)

// adminTips — структурированная подсказка «за что дают баллы»:
// список пар причина/баллы, который видят ученики.
func (s *Server) adminTips(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	items, err := db.ListTipItems(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/tips", s.view(c, gin.H{"items": items}))
}

func (s *Server) addTipItem(c *gin.Context) {
	reason := strings.TrimSpace(c.PostForm("reason"))
	points, ok := formInt(c, "points")
	if reason == "" || !ok {
		s.flash(c, "error", "Заполните причину и количество баллов")
		c.Redirect(http.StatusFound, "/admin/tips")
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if _, err := db.CreateTipItem(ctx, s.db, reason, points); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Подсказка добавлена")
	c.Redirect(http.StatusFound, "/admin/tips")
}

func (s *Server) editTipItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	reason := strings.TrimSpace(c.PostForm("reason"))
	points, okPoints := formInt(c, "points")
	if reason == "" || !okPoints {
		s.flash(c, "error", "Заполните причину и количество баллов")
		c.Redirect(http.StatusFound, "/admin/tips")
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	err := db.UpdateTipItem(ctx, s.db, id, reason, points)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Подсказка обновлена")
	c.Redirect(http.StatusFound, "/admin/tips")
}

func (s *Server) deleteTipItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	err := db.DeleteTipItem(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Подсказка удалена")
	c.Redirect(http.StatusFound, "/admin/tips")
}

// adminOldTips — старая свободная форма подсказки: один заголовок и
// один текст. Оставлена для совместимости со старым шаблоном.
func (s *Server) adminOldTips(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	tip, err := db.GetTip(ctx, s.db)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/old_tips", s.view(c, gin.H{"tip": tip}))
}

func (s *Server) editOldTips(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if err := db.UpdateTip(ctx, s.db, title, content); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Подсказка сохранена")
	c.Redirect(http.StatusFound, "/admin/old_tips")
}
