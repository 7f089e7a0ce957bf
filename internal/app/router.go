package app

import (
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/model"
	"edulearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要授权的路由
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(a.gate))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		// 学生接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)

		// 答疑与通知，角色在服务层校验
		authGroup.GET("/doubts", c.doubt.ListDoubts)
		authGroup.POST("/doubts", c.doubt.CreateDoubt)
		authGroup.GET("/notifications", c.notification.ListNotifications)
		authGroup.PUT("/notifications/:id/read", c.notification.MarkRead)
	}

	// 3. 管理员相关接口
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(a.gate), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/pending-teachers", c.admin.PendingTeachers)
		admin.POST("/approve-teacher", c.admin.ApproveTeacher)
	}
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/admin-login", c.auth.AdminLogin)
		auth.POST("/session", c.auth.SessionLogin)
		auth.POST("/logout", c.auth.Logout)
	}

	api.GET("/papers", c.paper.ListPapers)
	api.GET("/papers/:id", c.paper.GetPaper)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/tests/submit", c.test.SubmitTest)
		student.GET("/tests/results", c.test.ListResults)
		student.GET("/tests/results/:id", c.test.GetResult)
		student.GET("/progress", c.progress.GetProgress)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/generated-papers", c.generatedPaper.ListDrafts)
		teacher.GET("/generated-papers/:id", c.generatedPaper.GetDraft)
		teacher.POST("/generated-papers", c.generatedPaper.CreateDraft)

		approved := teacher.Group("")
		approved.Use(middleware.ApprovedMiddleware())
		{
			approved.POST("/papers", c.paper.CreatePaper)
			approved.POST("/generated-papers/:id/publish", c.generatedPaper.PublishDraft)
			approved.PUT("/doubts/:id/answer", c.doubt.AnswerDoubt)
		}
	}
}
