package routes

import (
	"github.com/gin-gonic/gin"

	"wechselplan/internal/handlers"
	"wechselplan/internal/middleware"
	"wechselplan/models"
)

// RegisterAPIRoutes wires the whole HTTP surface. Mutating routes are
// admin-only; teachers reach their own plans and grade entry.
func RegisterAPIRoutes(router *gin.Engine, authHandler *handlers.AuthHandler) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	teacherOrAdmin := middleware.RequireRole(models.RoleTeacher)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/azure/login", authHandler.AzureLogin)
		auth.GET("/azure/callback", authHandler.AzureCallback)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", authHandler.Me)

		classes := protected.Group("/classes")
		{
			classes.GET("", handlers.ListClassesHandler)
			classes.GET("/:id", handlers.GetClassHandler)
			classes.GET("/:id/students", handlers.ListClassStudentsHandler)
			classes.POST("", adminOnly, handlers.CreateClassHandler)
			classes.PUT("/:id", adminOnly, handlers.UpdateClassHandler)
			classes.DELETE("/:id", adminOnly, handlers.DeleteClassHandler)
		}

		students := protected.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.POST("", adminOnly, handlers.CreateStudentHandler)
			students.PUT("/:id", adminOnly, handlers.UpdateStudentHandler)
			students.PUT("/:id/group", adminOnly, handlers.UpdateStudentGroupHandler)
			students.DELETE("/:id", adminOnly, handlers.DeleteStudentHandler)
		}

		teachers := protected.Group("/teachers")
		{
			teachers.GET("", handlers.ListTeachersHandler)
			teachers.GET("/:id", handlers.GetTeacherHandler)
			teachers.POST("", adminOnly, handlers.CreateTeacherHandler)
			teachers.PUT("/:id", adminOnly, handlers.UpdateTeacherHandler)
			teachers.DELETE("/:id", adminOnly, handlers.DeleteTeacherHandler)
		}

		handlers.NewSubjectHandler().RegisterLookupRoutes(protected.Group("/subjects"), adminOnly)
		handlers.NewRoomHandler().RegisterLookupRoutes(protected.Group("/rooms"), adminOnly)
		handlers.NewLearningContentHandler().RegisterLookupRoutes(protected.Group("/learning-contents"), adminOnly)

		holidays := protected.Group("/holidays")
		{
			holidays.GET("", handlers.ListHolidaysHandler)
			holidays.POST("", adminOnly, handlers.CreateHolidayHandler)
			holidays.PUT("/:id", adminOnly, handlers.UpdateHolidayHandler)
			holidays.DELETE("/:id", adminOnly, handlers.DeleteHolidayHandler)
		}

		schedules := protected.Group("/schedules")
		{
			schedules.GET("", handlers.GetScheduleHandler)
			schedules.POST("", adminOnly, handlers.CreateScheduleHandler)
			schedules.DELETE("/:id", adminOnly, handlers.DeleteScheduleHandler)
		}

		schedule := protected.Group("/schedule")
		{
			schedule.GET("/teacher-assignments", handlers.ListAssignmentsHandler)
			schedule.POST("/teacher-assignments", adminOnly, handlers.SaveAssignmentsHandler)
			schedule.GET("/teacher-rotation", handlers.GetRotationHandler)
			schedule.POST("/teacher-rotation", adminOnly, handlers.BuildRotationHandler)
		}

		grades := protected.Group("/grades")
		{
			grades.GET("", teacherOrAdmin, handlers.ListGradesHandler)
			grades.POST("", teacherOrAdmin, handlers.SaveGradesHandler)
		}

		export := protected.Group("/export")
		{
			export.POST("/excel", handlers.ExportExcelHandler)
			export.GET("/pdf", handlers.ExportPDFHandler)
		}
		protected.GET("/notensammler/pdf", teacherOrAdmin, handlers.NotensammlerPDFHandler)
	}
}
