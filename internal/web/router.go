package web

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/metrics"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	if _, ok := s.render.(TemplateRenderer); ok {
		r.LoadHTMLGlob("templates/**/*.html")
	}

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 30 * 24 * 3600})
	r.Use(sessions.Sessions("school_session", store))
	r.Use(s.withActor())

	r.Static("/static", "./static")

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/", s.index)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/logout", s.requireAuth(), s.logout)

	authed := r.Group("", s.requireAuth())

	// пользователь любой роли
	authed.GET("/api/filter/students", s.apiFilterStudents)

	admin := authed.Group("/admin", s.requireRole(models.Admin))
	{
		admin.GET("", s.adminDashboard)
		admin.GET("/users", s.adminUsers)
		admin.GET("/users/create", s.createUsersForm)
		admin.POST("/users/create", s.createUsers)
		admin.GET("/users/export", s.exportUsers)
		admin.GET("/users/:id/history/export", s.exportUserHistory)
		admin.POST("/users/delete/:id", s.deleteUser)
		admin.GET("/groups", s.adminGroups)
		admin.GET("/groups/create", s.createGroupForm)
		admin.POST("/groups/create", s.createGroup)
		admin.GET("/groups/:id", s.groupDetail)
		admin.POST("/groups/:id", s.groupDetail)
		admin.POST("/groups/delete/:id", s.deleteGroup)
		admin.GET("/shop", s.adminShop)
		admin.GET("/shop/product/new", s.productDetail)
		admin.POST("/shop/product/new", s.productDetail)
		admin.GET("/shop/product/:id", s.productDetail)
		admin.POST("/shop/product/:id", s.productDetail)
		admin.POST("/shop/product/delete/:id", s.deleteProduct)
		admin.GET("/orders", s.adminOrders)
		admin.GET("/orders/:id", s.orderDetail)
		admin.POST("/orders/:id", s.orderDetail)
		admin.GET("/reward_reasons", s.adminRewardReasons)
		admin.POST("/reward_reasons/update_order", s.updateRewardReasonsOrder)
		admin.GET("/reward_reasons/create", s.createRewardReasonForm)
		admin.POST("/reward_reasons/create", s.createRewardReason)
		admin.GET("/reward_reasons/:id/edit", s.editRewardReasonForm)
		admin.POST("/reward_reasons/:id/edit", s.editRewardReason)
		admin.POST("/reward_reasons/:id/delete", s.deleteRewardReason)
		admin.GET("/tips", s.adminTips)
		admin.POST("/tips/add", s.addTipItem)
		admin.POST("/tips/edit/:id", s.editTipItem)
		admin.POST("/tips/delete/:id", s.deleteTipItem)
		admin.GET("/old_tips", s.adminOldTips)
		admin.POST("/old_tips/edit", s.editOldTips)
	}

	// карточка пользователя доступна администратору и преподавателю,
	// разграничение — внутри хендлера
	authed.GET("/admin/users/:id", s.userDetail)
	authed.POST("/admin/users/:id", s.userDetail)
	authed.GET("/teacher/students/:id", s.userDetail)
	authed.POST("/teacher/students/:id", s.userDetail)

	teacher := authed.Group("/teacher", s.requireRole(models.Teacher))
	{
		teacher.GET("", s.teacherDashboard)
		teacher.GET("/students", s.teacherStudents)
		teacher.POST("/students", s.teacherBulkGrant)
		teacher.GET("/group/:id", s.teacherGroupDetail)
		teacher.GET("/shop", s.teacherShop)
	}

	student := authed.Group("/student", s.requireRole(models.Student))
	{
		student.GET("", s.studentDashboard)
		student.GET("/shop", s.studentShop)
		student.POST("/shop/buy/:id", s.buyProduct)
		student.GET("/profile", s.studentProfile)
		student.GET("/group_rating", s.studentGroupRating)
	}

	return r
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: %s", err.Error())
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}
