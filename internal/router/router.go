package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/handler"
	"github.com/stemsi/exstem-console/internal/middleware"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Exam    *handler.ExamHandler
	Subject *handler.SubjectHandler
	Wizard  *handler.WizardHandler
	Setting *handler.SettingHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// previewLimiter throttles the bank-backed wizard endpoints.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	previewLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 1. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/exams/board",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.WS.ExamBoardStream,
		)
	}

	// ─── 2. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Exams
		adminAPI.GET("/exams",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.ListExams,
		)
		adminAPI.GET("/exams/calendar",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.Calendar,
		)
		adminAPI.GET("/exams/export",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			middleware.CacheControl(0),
			handlers.Exam.ExportExams,
		)
		adminAPI.DELETE("/exams/:id",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.DeleteExam,
		)

		// Question bank
		adminAPI.GET("/bank/subjects",
			middleware.RequirePermission(string(model.PermissionExamsGenerate)),
			middleware.CacheControl(60),
			handlers.Subject.ListSubjects,
		)

		// Generate-from-bank wizard
		wizard := adminAPI.Group("/wizard")
		wizard.Use(
			middleware.RequirePermission(string(model.PermissionExamsGenerate)),
			middleware.CacheControl(0),
		)
		{
			wizard.POST("", handlers.Wizard.StartWizard)
			wizard.GET("/:id", handlers.Wizard.GetWizard)
			wizard.DELETE("/:id", handlers.Wizard.CancelWizard)
			wizard.PUT("/:id/subject", handlers.Wizard.SelectSubject)
			wizard.PUT("/:id/total", handlers.Wizard.SetTotal)
			wizard.PUT("/:id/tiers/:tier", handlers.Wizard.SetTier)
			wizard.PUT("/:id/points", handlers.Wizard.SetPoints)
			wizard.PUT("/:id/negative-marking", handlers.Wizard.SetNegativeMarking)
			wizard.POST("/:id/preview", previewLimiter.Middleware(), handlers.Wizard.Preview)
			wizard.POST("/:id/back", handlers.Wizard.Back)
			wizard.PUT("/:id/schedule", handlers.Wizard.SetSchedule)
			wizard.POST("/:id/submit", previewLimiter.Middleware(), handlers.Wizard.Submit)
		}

		// Console preferences
		adminAPI.GET("/preferences/theme", handlers.Setting.GetTheme)
		adminAPI.POST("/preferences/theme/toggle",
			middleware.RequirePermission(string(model.PermissionSettingsWrite)),
			handlers.Setting.ToggleTheme,
		)
		adminAPI.PUT("/preferences/theme",
			middleware.RequirePermission(string(model.PermissionSettingsWrite)),
			handlers.Setting.UpdateTheme,
		)
	}

	return router
}
