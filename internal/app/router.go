package app

import (
	"educonnect_backend/docs"
	"educonnect_backend/internal/config"
	"educonnect_backend/internal/middleware"
	"educonnect_backend/internal/model"
	"educonnect_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// 公共路由（无需登录）
	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/refresh", c.auth.Refresh)
		auth.POST("/logout", c.auth.Logout)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", c.auth.Me)
			protected.PUT("/password", c.auth.ChangePassword)
		}
	}

	// 内容与排行：可选认证，登录用户叠加个人进度与名次
	optional := api.Group("")
	optional.Use(middleware.TryAuthMiddleware(cfg))
	{
		optional.GET("/subjects", c.content.ListSubjects)
		optional.GET("/subjects/:id/chapters", c.content.SubjectChapters)
		optional.GET("/chapters/:id/lessons", c.content.ChapterLessons)
		optional.GET("/lessons/:id", c.content.GetLesson)

		optional.GET("/quizzes", c.quiz.List)
		optional.GET("/quizzes/:id", c.quiz.Get)
		optional.GET("/quizzes/:id/questions", c.quiz.Questions)
		optional.GET("/quizzes/:id/leaderboard", c.quiz.Leaderboard)

		optional.GET("/exercises", c.exercise.List)
		optional.GET("/exercises/:id", c.exercise.Get)

		optional.GET("/leaderboard", c.leaderboard.Global)
		optional.GET("/leaderboard/weekly", c.leaderboard.Weekly)
		optional.GET("/leaderboard/streak", c.leaderboard.Streak)
		optional.GET("/leaderboard/subjects/:id", c.leaderboard.Subject)
	}

	// 强制认证
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.POST("/lessons/:id/complete", c.content.CompleteLesson)

		authorized.POST("/quizzes/:id/submit", c.quiz.Submit)
		authorized.GET("/quizzes/:id/attempts", c.quiz.Attempts)

		authorized.POST("/exercises/:id/submit", c.exercise.Submit)
		authorized.GET("/exercises/:id/attempts", c.exercise.Attempts)

		authorized.GET("/users/profile", c.user.Profile)
		authorized.PUT("/users/profile", c.user.UpdateProfile)
		authorized.POST("/users/avatar", c.user.UploadAvatar)
		authorized.GET("/users/achievements", c.user.Achievements)
		authorized.GET("/users/activity", c.user.Activity)
	}

	// 管理端
	admin := api.Group("/leaderboard/cache")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/update", c.leaderboard.RebuildCache)
		admin.GET("", c.leaderboard.CachedTop)
	}
}
