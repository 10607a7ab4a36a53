package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/auth"
	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/export"
	"github.com/Spok95/school-rewards-web/internal/metrics"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func (s *Server) adminDashboard(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	stats, err := db.GetDashboardStats(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/dashboard", s.view(c, gin.H{
		"stats": gin.H{
			"total_users":    stats.TotalUsers,
			"total_students": stats.TotalStudents,
			"total_teachers": stats.TotalTeachers,
			"total_products": stats.TotalProducts,
			"pending_orders": stats.PendingOrders,
		},
	}))
}

func (s *Server) adminUsers(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	users, err := db.ListUsers(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	groups, err := db.ListGroups(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/users", s.view(c, gin.H{
		"users":  users,
		"groups": groups,
	}))
}

func (s *Server) createUsersForm(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	groups, err := db.ListGroups(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/create_users", s.view(c, gin.H{"groups": groups}))
}

// createUsers — массовое создание: форма на десять строк, пустые
// пропускаем, занятые логины не прерывают остальных.
func (s *Server) createUsers(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	created := 0
	for i := 1; i <= 10; i++ {
		suffix := "_" + strconv.Itoa(i)
		username := strings.TrimSpace(c.PostForm("username" + suffix))
		if username == "" {
			continue
		}
		password := c.PostForm("password" + suffix)
		firstName := strings.TrimSpace(c.PostForm("first_name" + suffix))
		lastName := strings.TrimSpace(c.PostForm("last_name" + suffix))
		role := models.Role(c.PostForm("role" + suffix))
		if password == "" || firstName == "" || lastName == "" || !role.Valid() {
			continue
		}

		var groupID *int64
		if g := c.PostForm("group_id" + suffix); g != "" {
			if id, err := strconv.ParseInt(g, 10, 64); err == nil {
				groupID = &id
			}
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			s.serverError(c, err)
			return
		}
		pw := password
		_, err = db.CreateUser(ctx, s.db, &models.User{
			Username:        username,
			PasswordHash:    hash,
			VisiblePassword: &pw,
			FirstName:       firstName,
			LastName:        lastName,
			Role:            role,
			GroupID:         groupID,
		})
		if errors.Is(err, db.ErrUsernameTaken) {
			s.flash(c, "warning", fmt.Sprintf("Пользователь с логином %s уже существует", username))
			continue
		}
		if err != nil {
			s.serverError(c, err)
			return
		}
		created++
	}

	if created > 0 {
		s.flash(c, "success", fmt.Sprintf("Успешно создано %d пользователей", created))
	} else {
		s.flash(c, "warning", "Не создано ни одного пользователя. Проверьте заполнение полей.")
	}
	c.Redirect(http.StatusFound, "/admin/users")
}

// userDetail — общая карточка для администратора и преподавателя.
// Преподаватель видит только учеников своих групп; разграничение
// выполняется до любых изменений.
func (s *Server) userDetail(c *gin.Context) {
	me := actor(c)
	// ролевой отказ раньше любых обращений к хранилищу: посторонний не
	// должен по кодам ответов прощупывать, какие id существуют
	switch me.Role {
	case models.Admin, models.Teacher:
	default:
		s.flash(c, "error", "Доступ запрещен")
		c.Redirect(http.StatusFound, "/")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	user, err := db.GetUserByID(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	if me.Role == models.Teacher && !s.teacherOwnsStudent(ctx, me.ID, user) {
		s.flash(c, "error", "У вас нет доступа к этому ученику")
		c.Redirect(http.StatusFound, "/teacher")
		return
	}

	if c.Request.Method == http.MethodPost {
		if done := s.userDetailPost(c, me, user); done {
			return
		}
		// после изменения показываем обновлённую карточку
		if user, err = db.GetUserByID(ctx, s.db, id); err != nil {
			c.Redirect(http.StatusFound, roleHome(string(me.Role)))
			return
		}
	}

	history, err := db.ListHistory(ctx, s.db, user.ID, 0)
	if err != nil {
		s.serverError(c, err)
		return
	}
	groups, err := db.ListGroups(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	reasons, err := db.ListRewardReasons(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}

	template := "admin/user_detail"
	if me.Role == models.Teacher {
		template = "teacher/student_detail"
	}
	s.render.HTML(c, http.StatusOK, template, s.view(c, gin.H{
		"user":           user,
		"history":        history,
		"groups":         groups,
		"reward_reasons": reasons,
	}))
}

// userDetailPost обрабатывает одну из кнопок формы; true — ответ уже
// отправлен (redirect).
func (s *Server) userDetailPost(c *gin.Context, me, user *models.User) bool {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	switch {
	case c.PostForm("update_info") != "":
		user.FirstName = c.PostForm("first_name")
		user.LastName = c.PostForm("last_name")
		user.Username = c.PostForm("username")

		if newPassword := c.PostForm("new_password"); newPassword != "" {
			hash, err := auth.HashPassword(newPassword)
			if err != nil {
				s.serverError(c, err)
				return true
			}
			user.PasswordHash = hash
			user.VisiblePassword = &newPassword
		}

		if me.Role == models.Admin {
			if role := models.Role(c.PostForm("role")); role.Valid() {
				user.Role = role
			}
			user.GroupID = nil
			if g := c.PostForm("group_id"); g != "" {
				if id, err := strconv.ParseInt(g, 10, 64); err == nil {
					user.GroupID = &id
				}
			}
		}

		if err := db.UpdateUser(ctx, s.db, user); err != nil {
			if errors.Is(err, db.ErrUsernameTaken) {
				s.flash(c, "error", "Логин уже занят")
				return false
			}
			s.serverError(c, err)
			return true
		}
		s.flash(c, "success", "Информация обновлена")

	case c.PostForm("add_points") != "":
		points, ok := formInt(c, "points")
		if !ok || points <= 0 {
			s.flash(c, "error", "Количество баллов должно быть числом")
			return false
		}
		reason := c.PostForm("reason")
		if err := db.AddPoints(ctx, s.db, user.ID, points, reason, me.ID); err != nil {
			s.serverError(c, err)
			return true
		}
		metrics.PointsGranted.Add(float64(points))
		s.flash(c, "success", fmt.Sprintf("Начислено %d баллов", points))

	case c.PostForm("remove_points") != "":
		points, ok := formInt(c, "points")
		if !ok || points <= 0 {
			s.flash(c, "error", "Количество баллов должно быть числом")
			return false
		}
		reason := c.PostForm("reason")
		err := db.RemovePoints(ctx, s.db, user.ID, points, reason, me.ID)
		switch {
		case errors.Is(err, db.ErrInsufficientPoints):
			s.flash(c, "error", "Недостаточно баллов")
		case err != nil:
			s.serverError(c, err)
			return true
		default:
			s.flash(c, "success", fmt.Sprintf("Списано %d баллов", points))
		}

	case c.PostForm("delete_user") != "" && me.Role == models.Admin:
		if user.ID == me.ID {
			s.flash(c, "error", "Вы не можете удалить свой собственный аккаунт")
			return false
		}
		if err := db.DeleteUser(ctx, s.db, user.ID); err != nil {
			s.serverError(c, err)
			return true
		}
		s.flash(c, "success", fmt.Sprintf("Пользователь %s успешно удален", user.FullName()))
		c.Redirect(http.StatusFound, "/admin/users")
		return true
	}
	return false
}

func (s *Server) deleteUser(c *gin.Context) {
	me := actor(c)
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	if id == me.ID {
		s.flash(c, "error", "Вы не можете удалить свой собственный аккаунт")
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/users/%d", id))
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	user, err := db.GetUserByID(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	if err := db.DeleteUser(ctx, s.db, id); err != nil {
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", fmt.Sprintf("Пользователь %s успешно удален", user.FullName()))
	c.Redirect(http.StatusFound, "/admin/users")
}

// teacherOwnsStudent — ученик состоит в группе, закреплённой за
// преподавателем.
func (s *Server) teacherOwnsStudent(ctx context.Context, teacherID int64, user *models.User) bool {
	if user.Role != models.Student || user.GroupID == nil {
		return false
	}
	group, err := db.GetGroupByID(ctx, s.db, *user.GroupID)
	if err != nil {
		return false
	}
	return group.TeacherID != nil && *group.TeacherID == teacherID
}

// exportUsers — выгрузка всех пользователей в xlsx: общий лист и по
// листу на роль.
func (s *Server) exportUsers(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	users, err := db.ListUsers(ctx, s.db)
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

	f, err := export.NewWorkbook(export.UsersSheets(users, groupNames))
	if err != nil {
		s.serverError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		s.log.Errorw("export users write failed", "err", err)
	}
}

// exportUserHistory — история баллов одного пользователя в xlsx.
func (s *Server) exportUserHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	user, err := db.GetUserByID(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	history, err := db.ListHistory(ctx, s.db, id, 0)
	if err != nil {
		s.serverError(c, err)
		return
	}

	f, err := export.NewWorkbook([]export.SheetSpec{export.HistorySheet(user, history)})
	if err != nil {
		s.serverError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="history_%d.xlsx"`, user.ID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		s.log.Errorw("export history write failed", "err", err)
	}
}
