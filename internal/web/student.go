package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/metrics"
	"github.com/Spok95/school-rewards-web/internal/models"
	"github.com/Spok95/school-rewards-web/internal/ranking"
)

func (s *Server) studentDashboard(c *gin.Context) {
	me := actor(c)
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	history, err := db.ListHistory(ctx, s.db, me.ID, 10)
	if err != nil {
		s.serverError(c, err)
		return
	}
	tips, err := db.ListTipItems(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "student/dashboard", s.view(c, gin.H{
		"history": history,
		"tips":    tips,
	}))
}

func (s *Server) studentShop(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	products, err := db.ListProducts(ctx, s.db, true)
	if err != nil {
		s.serverError(c, err)
		return
	}
	categories, err := db.ListCategories(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "student/shop", s.view(c, gin.H{
		"products":   products,
		"categories": categories,
	}))
}

// buyProduct — JSON-покупка с витрины. Списание и резерв остатка
// атомарны, гонка двух покупателей за последнюю единицу оставляет
// ровно одного победителя.
func (s *Server) buyProduct(c *gin.Context) {
	me := actor(c)
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Товар не найден"})
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	newBalance, orderID, err := db.Purchase(ctx, s.db, me.ID, id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Товар не найден"})
		return
	case errors.Is(err, db.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Товар закончился"})
		return
	case errors.Is(err, db.ErrInsufficientPoints):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Недостаточно баллов"})
		return
	case err != nil:
		s.serverError(c, err)
		return
	}

	metrics.Purchases.Inc()
	if order, gerr := db.GetOrderByID(ctx, s.db, orderID); gerr == nil {
		s.notifier.OrderCreated(order)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Товар куплен!",
		"new_balance": newBalance,
		"order_id":    orderID,
	})
}

func (s *Server) studentProfile(c *gin.Context) {
	me := actor(c)
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	history, err := db.ListHistory(ctx, s.db, me.ID, 0)
	if err != nil {
		s.serverError(c, err)
		return
	}

	position := 0
	var group *models.Group
	if me.GroupID != nil {
		if group, err = db.GetGroupByID(ctx, s.db, *me.GroupID); err != nil && !errors.Is(err, db.ErrNotFound) {
			s.serverError(c, err)
			return
		}
		students, err := db.ListGroupStudents(ctx, s.db, *me.GroupID)
		if err != nil {
			s.serverError(c, err)
			return
		}
		position = ranking.PositionOf(students, me.ID)
	}

	tips, err := db.ListTipItems(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "student/profile", s.view(c, gin.H{
		"history":  history,
		"group":    group,
		"position": position,
		"tips":     tips,
	}))
}

// studentGroupRating — рейтинг группы по накопленным баллам; без
// группы показываем пустую страницу с подсказкой.
func (s *Server) studentGroupRating(c *gin.Context) {
	me := actor(c)
	if me.GroupID == nil {
		s.render.HTML(c, http.StatusOK, "student/group_rating", s.view(c, gin.H{
			"students": []ranking.RankedStudent{},
		}))
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	group, err := db.GetGroupByID(ctx, s.db, *me.GroupID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.serverError(c, err)
		return
	}
	students, err := db.ListGroupStudents(ctx, s.db, *me.GroupID)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "student/group_rating", s.view(c, gin.H{
		"group":    group,
		"students": ranking.Assign(students),
		"my_id":    me.ID,
	}))
}
