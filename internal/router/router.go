package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/handler"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Site       *handler.SiteHandler
	Class      *handler.UserClassHandler
	User       *handler.UserHandler
	Assignment *handler.AssignmentHandler
	Submission *handler.SubmissionHandler
	ActionLog  *handler.ActionLogHandler
}

// Authenticator is what the console guards need from the auth service.
type Authenticator interface {
	middleware.TokenValidator
	middleware.SessionValidator
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background helpers such as the rate limiter's cleanup.
func SetupRouter(
	ctx context.Context,
	auth Authenticator,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireStaff := middleware.RequireStaffJWT(auth)
	singleSession := middleware.CheckSingleSession(auth)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	go loginLimiter.RunCleanup(ctx)

	authAPI := router.Group("/api/v1/auth")
	authAPI.Use(middleware.NoStore())
	{
		authAPI.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		authAPI.POST("/logout", requireStaff, singleSession, handlers.Auth.Logout)
		authAPI.GET("/me", requireStaff, singleSession, handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group (query-token auth) ─────────────────────────
	wsAPI := router.Group("/ws/v1/admin")
	wsAPI.Use(middleware.RequireWSAuth(auth), singleSession)
	{
		wsAPI.GET("/actions/stream", handlers.ActionLog.StreamActions)
	}

	// ─── 3. Admin Group (JWT + Single Session + RBAC) ──────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireStaff, singleSession, middleware.NoStore())
	{
		// Site index. Open to every console user.
		adminAPI.GET("/site", handlers.Site.Index)
		adminAPI.GET("/site/:model", handlers.Site.GetModel)

		// Class management
		classes := adminAPI.Group("/classes")
		{
			classes.GET("", middleware.RequirePermission(model.PermissionClassesRead), handlers.Class.ListClasses)
			classes.GET("/:id", middleware.RequirePermission(model.PermissionClassesRead), handlers.Class.GetClass)
			classes.POST("", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.CreateClass)
			classes.PUT("/:id", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.UpdateClass)
			classes.DELETE("/:id", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.DeleteClass)
		}

		// User management
		users := adminAPI.Group("/users")
		{
			users.GET("", middleware.RequirePermission(model.PermissionUsersRead), handlers.User.ListUsers)
			users.GET("/:id", middleware.RequirePermission(model.PermissionUsersRead), handlers.User.GetUser)
			users.POST("", middleware.RequirePermission(model.PermissionUsersWrite), handlers.User.CreateUser)
			users.PUT("/:id", middleware.RequirePermission(model.PermissionUsersWrite), handlers.User.UpdateUser)
			users.DELETE("/:id", middleware.RequirePermission(model.PermissionUsersWrite), handlers.User.DeleteUser)
			users.POST("/:id/password", middleware.RequirePermission(model.PermissionUsersWrite), handlers.User.ChangePassword)
			users.POST("/:id/deactivate", middleware.RequirePermission(model.PermissionUsersWrite), handlers.User.DeactivateUser)
			users.POST("/:id/reset-session",
				middleware.RequirePermission(model.PermissionUsersResetSession),
				handlers.User.ResetUserSession,
			)
		}

		// Assignment management. Ownership is checked per record.
		writeAssignments := middleware.RequireAnyPermission(
			model.PermissionAssignmentsWriteOwn,
			model.PermissionAssignmentsWriteAll,
		)
		assignments := adminAPI.Group("/assignments")
		{
			assignments.GET("", middleware.RequirePermission(model.PermissionAssignmentsRead), handlers.Assignment.ListAssignments)
			assignments.GET("/:id", middleware.RequirePermission(model.PermissionAssignmentsRead), handlers.Assignment.GetAssignment)
			assignments.POST("", writeAssignments, handlers.Assignment.CreateAssignment)
			assignments.PUT("/:id", writeAssignments, handlers.Assignment.UpdateAssignment)
			assignments.DELETE("/:id", writeAssignments, handlers.Assignment.DeleteAssignment)
		}

		// Submission management
		submissions := adminAPI.Group("/submissions")
		{
			submissions.GET("", middleware.RequirePermission(model.PermissionSubmissionsRead), handlers.Submission.ListSubmissions)
			submissions.GET("/:id", middleware.RequirePermission(model.PermissionSubmissionsRead), handlers.Submission.GetSubmission)
			submissions.POST("", middleware.RequirePermission(model.PermissionSubmissionsWrite), handlers.Submission.CreateSubmission)
			submissions.PUT("/:id", middleware.RequirePermission(model.PermissionSubmissionsWrite), handlers.Submission.UpdateSubmission)
			submissions.DELETE("/:id", middleware.RequirePermission(model.PermissionSubmissionsWrite), handlers.Submission.DeleteSubmission)
			submissions.POST("/:id/grade", middleware.RequirePermission(model.PermissionSubmissionsGrade), handlers.Submission.GradeSubmission)
		}

		// Action log
		adminAPI.GET("/actions", middleware.RequirePermission(model.PermissionActionsRead), handlers.ActionLog.ListActions)
	}

	return router
}
