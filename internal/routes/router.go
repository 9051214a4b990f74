// Package routes maps URLs onto handlers.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/handler"
	"github.com/noah-isme/classroll-api/internal/middleware"
	"github.com/noah-isme/classroll-api/internal/models"
)

// Dependencies bundles the handlers and cross-cutting hooks the router needs.
type Dependencies struct {
	Prefix string

	Auth       *handler.AuthHandler
	Groups     *handler.GroupHandler
	Classes    *handler.ClassHandler
	Students   *handler.StudentHandler
	Teachers   *handler.TeacherHandler
	Attendance *handler.AttendanceHandler
	Capture    *handler.CaptureHandler
	Exports    *handler.ExportHandler
	Sync       *handler.SyncHandler
	Metrics    *handler.MetricsHandler
	Audit      *handler.AuditHandler

	Tokens   middleware.TokenValidator
	Recorder middleware.AuditRecorder
}

// SetupRoutes registers every route on r.
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	prefix := deps.Prefix
	if prefix == "" {
		prefix = "/api/v1"
	}

	r.GET("/health", deps.Metrics.Health)
	r.GET("/metrics", deps.Metrics.Prometheus)

	api := r.Group(prefix)

	// Public: login, and signed downloads which carry their own token.
	api.POST("/auth/login", deps.Auth.Login)
	api.GET("/exports/:token", deps.Exports.Download)

	authRequired := api.Group("")
	authRequired.Use(middleware.JWT(deps.Tokens))
	{
		authRequired.POST("/auth/logout", deps.Auth.Logout)
		authRequired.GET("/auth/me", deps.Auth.Me)

		staff := authRequired.Group("")
		staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
		registerDirectoryRoutes(staff, deps)
		registerAttendanceRoutes(staff, deps)
		staff.POST("/sync", middleware.Audit(deps.Recorder, models.AuditActionSync, "sync"), deps.Sync.Refresh)

		self := authRequired.Group("/teachers/:teacherId")
		self.Use(middleware.RBAC(string(models.RoleAdmin), middleware.SelfTeacher))
		{
			self.GET("", deps.Teachers.Get)
			self.GET("/groups", deps.Teachers.Groups)
			self.GET("/classes", deps.Teachers.Classes)
		}

		admin := authRequired.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		registerAdminRoutes(admin, deps)
	}
}

func registerDirectoryRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.GET("/groups", deps.Groups.List)
	rg.GET("/groups/:id", deps.Groups.Get)
	rg.GET("/groups/:id/students", deps.Groups.Students)

	rg.GET("/classes", deps.Classes.List)
	rg.GET("/classes/:id", deps.Classes.Get)
	rg.GET("/classes/:id/students", deps.Classes.Students)
	rg.GET("/classes/:id/groups", deps.Classes.Groups)

	rg.GET("/students", deps.Students.List)
	rg.GET("/students/:id", deps.Students.Get)
	rg.GET("/students/:id/groups", deps.Students.Groups)
}

func registerAttendanceRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.GET("/attendance/sessions", deps.Attendance.Sessions)
	rg.GET("/attendance/matrix", deps.Attendance.Matrix)
	rg.GET("/attendance/stats", deps.Attendance.Stats)
	rg.POST("/attendance/capture", deps.Capture.Capture)
	rg.GET("/attendance/capture/status", deps.Capture.Status)
	rg.POST("/attendance/export", middleware.Audit(deps.Recorder, models.AuditActionExport, "export"), deps.Exports.Export)
}

func registerAdminRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.POST("/groups", deps.Groups.Create)
	rg.PUT("/groups/:id", deps.Groups.Update)
	rg.DELETE("/groups/:id", deps.Groups.Delete)
	rg.POST("/groups/:id/classes/:classId", deps.Groups.AssignClass)

	rg.GET("/teachers", deps.Teachers.List)
	rg.POST("/teachers", deps.Teachers.Create)
	rg.POST("/classes", deps.Classes.Create)
	rg.POST("/students", deps.Students.Create)
	rg.POST("/students/import", deps.Students.Import)

	rg.GET("/consistency", deps.Groups.Consistency)
	rg.GET("/admin/metrics", deps.Metrics.Snapshot)
	rg.GET("/admin/audit", deps.Audit.List)
}
