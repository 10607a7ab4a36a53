package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func (s *Server) adminGroups(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	groups, err := db.ListGroups(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/groups", s.view(c, gin.H{"groups": groups}))
}

func (s *Server) createGroupForm(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	teachers, err := db.ListUsersByRole(ctx, s.db, models.Teacher)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/create_group", s.view(c, gin.H{"teachers": teachers}))
}

func (s *Server) createGroup(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		s.flash(c, "error", "Название группы не может быть пустым")
		c.Redirect(http.StatusFound, "/admin/groups/create")
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if _, err := db.CreateGroup(ctx, s.db, name, formTeacherID(c)); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", fmt.Sprintf("Группа %s создана", name))
	c.Redirect(http.StatusFound, "/admin/groups")
}

// groupDetail — просмотр и редактирование группы одной страницей.
func (s *Server) groupDetail(c *gin.Context) {
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

	if c.Request.Method == http.MethodPost {
		switch {
		case c.PostForm("update_group") != "":
			name := strings.TrimSpace(c.PostForm("name"))
			if name == "" {
				s.flash(c, "error", "Название группы не может быть пустым")
				c.Redirect(http.StatusFound, fmt.Sprintf("/admin/groups/%d", id))
				return
			}
			if err := db.UpdateGroup(ctx, s.db, id, name, formTeacherID(c)); err != nil {
				s.serverError(c, err)
				return
			}
			s.flash(c, "success", "Группа обновлена")
			c.Redirect(http.StatusFound, fmt.Sprintf("/admin/groups/%d", id))
			return
		case c.PostForm("delete_group") != "":
			if err := db.DeleteGroup(ctx, s.db, id); err != nil {
				s.serverError(c, err)
				return
			}
			s.flash(c, "success", fmt.Sprintf("Группа %s удалена", group.Name))
			c.Redirect(http.StatusFound, "/admin/groups")
			return
		}
	}

	students, err := db.ListGroupStudents(ctx, s.db, id)
	if err != nil {
		s.serverError(c, err)
		return
	}
	teachers, err := db.ListUsersByRole(ctx, s.db, models.Teacher)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/group_detail", s.view(c, gin.H{
		"group":    group,
		"students": students,
		"teachers": teachers,
	}))
}

func (s *Server) deleteGroup(c *gin.Context) {
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
	if err := db.DeleteGroup(ctx, s.db, id); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", fmt.Sprintf("Группа %s удалена", group.Name))
	c.Redirect(http.StatusFound, "/admin/groups")
}

func formTeacherID(c *gin.Context) *int64 {
	v := c.PostForm("teacher_id")
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
