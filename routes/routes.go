package routes

import (
	"HealthifyGo/controllers"
	"HealthifyGo/middleware"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, svc *services.Services, internalToken string) {
	authController := controllers.NewAuthController(svc.Users)
	userController := controllers.NewUserController(svc.Users)
	recordController := controllers.NewRecordController(svc.Records)
	reportController := controllers.NewReportController(svc.Reports)
	adviceController := controllers.NewAdviceController(svc.Advice, svc.Drafter)
	contentController := controllers.NewContentController(svc.Foods, svc.Announcements, svc.Suggestions)
	adminController := controllers.NewAdminController(svc)

	// 公开路由（无需认证）
	public := r.Group("/api")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
	}

	// 需要认证的路由
	private := r.Group("/api")
	private.Use(middleware.AuthMiddleware(svc.Users))
	{
		private.GET("/user/profile", userController.GetProfile)
		private.PUT("/user/profile", userController.UpdateProfile)
		private.POST("/auth/password", userController.ChangePassword)

		private.POST("/records", recordController.Create)
		private.GET("/records", recordController.List)
		private.GET("/records/stats", recordController.Stats)
		private.GET("/records/:id", recordController.Get)
		private.PUT("/records/:id", recordController.Update)
		private.DELETE("/records/:id", recordController.Delete)

		private.GET("/reports/summary", reportController.Summary)
		private.GET("/reports/data", reportController.Data)
		private.GET("/reports/trends", reportController.Trends)
		private.POST("/reports/generate", reportController.Generate)
		private.GET("/reports", reportController.List)
		private.GET("/reports/:id", reportController.Get)
		private.DELETE("/reports/:id", reportController.Delete)
		private.GET("/reports/:id/export", reportController.Export)

		private.POST("/advice-requests", adviceController.Submit)
		private.GET("/advice-requests", adviceController.ListMine)

		private.GET("/foods", contentController.ListFoods)
		private.GET("/announcements", contentController.ListAnnouncements)
		private.GET("/suggestions/manual/:user_id", contentController.ListSuggestions)
	}

	// 管理员路由，角色以数据库为准
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(svc.Users), middleware.AdminRequired(svc.Users))
	{
		admin.GET("/dashboard", adminController.Dashboard)
		admin.GET("/users", adminController.ListUsers)
		admin.POST("/users", adminController.CreateUser)
		admin.GET("/users/:id", adminController.GetUser)
		admin.PUT("/users/:id", adminController.UpdateUser)
		admin.DELETE("/users/:id", adminController.DeleteUser)
		admin.GET("/users/:id/report", adminController.UserReport)
		admin.POST("/users/:id/recommendation", adminController.Recommendation)
		admin.PUT("/reports/:id", adminController.UpdateReport)

		admin.GET("/advice-requests", adviceController.List)
		admin.POST("/advice-requests/:id/respond", adviceController.Respond)
		admin.POST("/advice-requests/:id/draft", adviceController.Draft)

		admin.POST("/foods", contentController.CreateFood)
		admin.PUT("/foods/:id", contentController.UpdateFood)
		admin.DELETE("/foods/:id", contentController.DeleteFood)

		admin.GET("/announcements", contentController.ListAnnouncements)
		admin.POST("/announcements", contentController.CreateAnnouncement)
		admin.PUT("/announcements/:id", contentController.UpdateAnnouncement)
		admin.DELETE("/announcements/:id", contentController.DeleteAnnouncement)

		admin.POST("/suggestions/:user_id", contentController.AddSuggestion)
		admin.DELETE("/suggestions/:id", contentController.DeleteSuggestion)

		admin.GET("/settings", adminController.ListSettings)
		admin.POST("/settings", adminController.CreateSetting)
		admin.PUT("/settings/:key", adminController.UpdateSetting)
		admin.DELETE("/settings/:key", adminController.DeleteSetting)

		admin.GET("/activity-logs", adminController.ActivityLogs)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(internalToken))
	{
		internal.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
