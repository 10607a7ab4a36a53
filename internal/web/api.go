package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
)

// apiFilterStudents — JSON-список учеников для выпадающих фильтров,
// опционально по одной группе (?group_id=N).
func (s *Server) apiFilterStudents(c *gin.Context) {
	var groupID *int64
	if v := c.Query("group_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Неверный формат данных"})
			return
		}
		groupID = &id
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	students, err := db.ListStudents(ctx, s.db, groupID)
	if err != nil {
		s.serverError(c, err)
		return
	}
	groups, err := db.ListGroups(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	out := make([]gin.H, 0, len(students))
	for _, st := range students {
		group := "Без группы"
		if st.GroupID != nil {
			if name, ok := groupNames[*st.GroupID]; ok {
				group = name
			}
		}
		out = append(out, gin.H{
			"id":            st.ID,
			"name":          st.FullName(),
			"group":         group,
			"points":        st.Points,
			"earned_points": st.EarnedPoints,
		})
	}
	c.JSON(http.StatusOK, out)
}
