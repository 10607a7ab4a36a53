package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/metrics"
	"github.com/Spok95/school-rewards-web/internal/ranking"
)

func (s *Server) teacherDashboard(c *gin.Context) {
	me := actor(c)
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	groups, err := db.ListGroupsByTeacher(ctx, s.db, me.ID)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "teacher/dashboard", s.view(c, gin.H{"groups": groups}))
}

// teacherStudents — ученики групп преподавателя, с фильтром по одной
// группе через ?group_id.
func (s *Server) teacherStudents(c *gin.Context) {
	me := actor(c)
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	groups, err := db.ListGroupsByTeacher(ctx, s.db, me.ID)
	if err != nil {
		s.serverError(c, err)
		return
	}

	var selected *int64
	if v := c.Query("group_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			// чужую группу через query не подсмотреть
			for _, g := range groups {
				if g.ID == id {
					selected = &id
					break
				}
			}
		}
	}

	var ranked []ranking.RankedStudent
	if selected != nil {
		students, err := db.ListGroupStudents(ctx, s.db, *selected)
		if err != nil {
			s.serverError(c, err)
			return
		}
		ranked = ranking.Assign(students)
	} else {
		for _, g := range groups {
			students, err := db.ListGroupStudents(ctx, s.db, g.ID)
			if err != nil {
				s.serverError(c, err)
				return
			}
			ranked = append(ranked, ranking.Assign(students)...)
		}
	}

	reasons, err := db.ListRewardReasons(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "teacher/students", s.view(c, gin.H{
		"groups":         groups,
		"students":       ranked,
		"selected_group": selected,
		"reward_reasons": reasons,
	}))
}

// teacherBulkGrant — массовое начисление: JSON вида
// {"<student_id>": [{"reason_id": 1}, ...]}. Чужие ученики и
// несуществующие причины молча пропускаются, ответ сообщает сколько
// учеников реально получили баллы.
func (s *Server) teacherBulkGrant(c *gin.Context) {
	me := actor(c)

	var req map[string][]struct {
		ReasonID int64 `json:"reason_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Неверный формат данных"})
		return
	}

	grants := make(map[int64][]int64, len(req))
	for k, items := range req {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil || id <= 0 || len(items) == 0 {
			continue
		}
		reasonIDs := make([]int64, 0, len(items))
		for _, it := range items {
			reasonIDs = append(reasonIDs, it.ReasonID)
		}
		grants[id] = reasonIDs
	}
	if len(grants) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Неверный формат данных"})
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	res, err := db.BulkGrant(ctx, s.db, me.ID, grants)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if res.StudentsUpdated == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Баллы не начислены: проверьте выбранных учеников"})
		return
	}
	metrics.PointsGranted.Add(float64(res.TotalPoints))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Баллы начислены: учеников — %d, всего баллов — %d", res.StudentsUpdated, res.TotalPoints),
	})
}

func (s *Server) teacherGroupDetail(c *gin.Context) {
	me := actor(c)
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	group, err := db.GetGroupByID(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	if group.TeacherID == nil || *group.TeacherID != me.ID {
		s.flash(c, "error", "У вас нет доступа к этой группе")
		c.Redirect(http.StatusFound, "/teacher")
		return
	}

	students, err := db.ListGroupStudents(ctx, s.db, id)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "teacher/group_detail", s.view(c, gin.H{
		"group":    group,
		"students": ranking.Assign(students),
	}))
}

// teacherShop — витрина только для просмотра: преподаватель видит цены
// и остатки, но не покупает.
func (s *Server) teacherShop(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	products, err := db.ListProducts(ctx, s.db, false)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "teacher/shop", s.view(c, gin.H{"products": products}))
}
