package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workspace-admin-api/internal/middleware"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	"github.com/noah-isme/workspace-admin-api/internal/service"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Workspaces  *WorkspaceHandler
	Members     *MemberHandler
	Units       *UnitHandler
	Templates   *FormTemplateHandler
	Assignments *FormAssignmentHandler
	Reports     *ReportHandler
	Exports     *ExportHandler
	Public      *PublicHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix. The public
// slug endpoints and export downloads stay outside the JWT guard; everything
// else requires a valid token.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, audit *repository.UserRepository) {
	api := r.Group(prefix)

	public := api.Group("/public")
	public.Use(middleware.WithResponseMeta())
	{
		public.GET("/assignments/:slug", h.Public.Assignment)
		public.POST("/assignments/:slug/submissions", h.Public.Submit)
		public.GET("/members/:slug", h.Public.Member)
		public.GET("/reports/:reference/verify", h.Public.VerifyReport)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)

		protected := authGroup.Group("")
		protected.Use(middleware.JWT(auth))
		protected.POST("/logout", h.Auth.Logout)
		protected.GET("/me", h.Auth.Me)
		protected.POST("/change-password", h.Auth.ChangePassword)
	}

	// Downloads are gated by the signed token itself, not by a session.
	api.GET("/exports/download/:token", h.Exports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	admin.Use(middleware.Audit(audit, "ADMIN_WRITE", "admin"))
	{
		admin.GET("/users", h.Users.List)
		admin.POST("/users", h.Users.Create)
		admin.GET("/users/:id", h.Users.Get)
		admin.PUT("/users/:id", h.Users.Update)
		admin.DELETE("/users/:id", h.Users.Delete)

		admin.POST("/workspaces", h.Workspaces.Create)
		admin.PUT("/workspaces/:workspaceId", h.Workspaces.Update)
		admin.DELETE("/workspaces/:workspaceId", h.Workspaces.Delete)

		admin.GET("/admin/metrics", h.Metrics.Snapshot)
	}

	manager := secured.Group("")
	manager.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager))
	{
		manager.GET("/workspaces", h.Workspaces.List)
		manager.GET("/workspaces/:workspaceId", h.Workspaces.Get)

		manager.GET("/workspaces/:workspaceId/members", h.Members.List)
		manager.POST("/workspaces/:workspaceId/members", h.Members.Create)
		manager.GET("/workspaces/:workspaceId/members/:id", h.Members.Get)
		manager.PUT("/workspaces/:workspaceId/members/:id", h.Members.Update)
		manager.DELETE("/workspaces/:workspaceId/members/:id", h.Members.Delete)

		manager.GET("/workspaces/:workspaceId/units", h.Units.Tree)
		manager.POST("/workspaces/:workspaceId/units", h.Units.Create)
		manager.GET("/workspaces/:workspaceId/units/:id", h.Units.Get)
		manager.PUT("/workspaces/:workspaceId/units/:id", h.Units.Update)
		manager.DELETE("/workspaces/:workspaceId/units/:id", h.Units.Delete)

		manager.GET("/workspaces/:workspaceId/form-templates", h.Templates.List)
		manager.POST("/workspaces/:workspaceId/form-templates", h.Templates.Create)
		manager.GET("/workspaces/:workspaceId/form-templates/:id", h.Templates.Get)
		manager.PUT("/workspaces/:workspaceId/form-templates/:id", h.Templates.Update)
		manager.DELETE("/workspaces/:workspaceId/form-templates/:id", h.Templates.Delete)

		manager.GET("/workspaces/:workspaceId/form-assignments", h.Assignments.List)
		manager.POST("/workspaces/:workspaceId/form-assignments", h.Assignments.Create)
		manager.GET("/workspaces/:workspaceId/form-assignments/:id", h.Assignments.Get)
		manager.POST("/workspaces/:workspaceId/form-assignments/:id/start", h.Assignments.Start)
		manager.POST("/workspaces/:workspaceId/form-assignments/:id/review", h.Assignments.Review)
		manager.PUT("/workspaces/:workspaceId/form-assignments/:id/active", h.Assignments.SetActive)
		manager.GET("/workspaces/:workspaceId/form-assignments/:id/submissions", h.Assignments.Submissions)

		manager.POST("/reports/generate", middleware.Audit(audit, "REPORT_GENERATE", "reports"), h.Reports.Generate)
		manager.GET("/reports", h.Reports.History)

		manager.POST("/exports", h.Exports.Create)
		manager.GET("/exports/:id", h.Exports.Status)
	}
}
