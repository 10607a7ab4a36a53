package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func (s *Server) adminRewardReasons(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	reasons, err := db.ListRewardReasons(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/reward_reasons", s.view(c, gin.H{"reasons": reasons}))
}

// updateRewardReasonsOrder принимает JSON-массив {id, order} и
// переставляет причины одной транзакцией.
func (s *Server) updateRewardReasonsOrder(c *gin.Context) {
	var items []models.ReasonOrder
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Неверный формат данных"})
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if err := db.ReorderRewardReasons(ctx, s.db, items); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Порядок сохранен"})
}

func (s *Server) createRewardReasonForm(c *gin.Context) {
	s.render.HTML(c, http.StatusOK, "admin/create_reward_reason", s.view(c, gin.H{}))
}

func (s *Server) createRewardReason(c *gin.Context) {
	reason := strings.TrimSpace(c.PostForm("reason"))
	points, ok := formInt(c, "points")
	if reason == "" || !ok {
		s.flash(c, "error", "Заполните причину и количество баллов")
		c.Redirect(http.StatusFound, "/admin/reward_reasons/create")
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if _, err := db.CreateRewardReason(ctx, s.db, reason, points); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Причина добавлена")
	c.Redirect(http.StatusFound, "/admin/reward_reasons")
}

func (s *Server) editRewardReasonForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	reason, err := db.GetRewardReason(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/edit_reward_reason", s.view(c, gin.H{"reason": reason}))
}

func (s *Server) editRewardReason(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	reason := strings.TrimSpace(c.PostForm("reason"))
	points, okPoints := formInt(c, "points")
	if reason == "" || !okPoints {
		s.flash(c, "error", "Заполните причину и количество баллов")
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/reward_reasons/%d/edit", id))
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	err := db.UpdateRewardReason(ctx, s.db, id, reason, points)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Причина обновлена")
	c.Redirect(http.StatusFound, "/admin/reward_reasons")
}

func (s *Server) deleteRewardReason(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	err := db.DeleteRewardReason(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Причина удалена")
	c.Redirect(http.StatusFound, "/admin/reward_reasons")
}
