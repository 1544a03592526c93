package router

import (
	"net/http"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/handler"
	"github.com/arenalabs/quizarena-backend/internal/middleware"
	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Session     *handler.SessionHandler
	Round       *handler.RoundHandler
	Question    *handler.QuestionHandler
	Participant *handler.ParticipantHandler
	Validation  *handler.ValidationHandler
	Result      *handler.ResultHandler
	Setting     *handler.SettingHandler
	Admin       *handler.AdminHandler
	WS          *handler.WSHandler
	System      *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/participant/register", handlers.Auth.RegisterParticipant)
		auth.POST("/participant/login", handlers.Auth.ParticipantLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/participant/logout", middleware.RequireParticipantJWT(authService), handlers.Auth.ParticipantLogout)
		auth.GET("/participant/me", middleware.RequireParticipantJWT(authService), handlers.Auth.GetParticipantProfile)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Participant Group (JWT + Single Device) ────────────────────
	participantAPI := router.Group("/api/v1/session")
	participantAPI.Use(
		middleware.RequireParticipantJWT(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)
	{
		participantAPI.POST("/start", handlers.Session.StartSession)
		participantAPI.POST("/submit", handlers.Session.SubmitSession)
		participantAPI.POST("/release", handlers.Session.CancelSession)
		participantAPI.GET("/current", handlers.Session.CurrentSession)
	}

	// ─── 3. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/monitor", handlers.WS.MonitorStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Round management
		adminAPI.GET("/rounds", handlers.Round.ListRounds)
		adminAPI.POST("/rounds", handlers.Round.CreateRound)
		adminAPI.POST("/rounds/:id/activate", handlers.Round.ActivateRound)
		adminAPI.POST("/rounds/:id/deactivate", handlers.Round.DeactivateRound)
		adminAPI.PATCH("/rounds/:id/time-limit", handlers.Round.UpdateTimeLimit)
		adminAPI.DELETE("/rounds/:id", handlers.Round.DeleteRound)
		adminAPI.GET("/rounds/:id/results", handlers.Result.RoundResults)
		adminAPI.GET("/rounds/:id/sessions", handlers.Session.RoundSessions)

		// Question management
		adminAPI.GET("/rounds/:id/questions", handlers.Question.ListQuestions)
		adminAPI.POST("/rounds/:id/questions", handlers.Question.CreateQuestion)
		adminAPI.PATCH("/questions/:id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Question.DeleteQuestion)

		// Participant management
		adminAPI.GET("/participants", handlers.Participant.ListParticipants)
		adminAPI.GET("/participants/:id", handlers.Participant.GetParticipant)
		adminAPI.POST("/participants/:id/promote", handlers.Participant.PromoteParticipant)
		adminAPI.POST("/participants/:id/depromote", handlers.Participant.DepromoteParticipant)
		adminAPI.POST("/participants/:id/activate", handlers.Participant.ActivateParticipant)
		adminAPI.POST("/participants/:id/deactivate", handlers.Participant.DeactivateParticipant)
		adminAPI.POST("/participants/:id/release-session", handlers.Session.ReleaseSession)
		adminAPI.POST("/participants/:id/reset-login", handlers.Participant.ResetLogin)
		adminAPI.DELETE("/participants/:email", handlers.Participant.RemoveParticipant)

		// Submission validation
		adminAPI.GET("/submissions/pending", handlers.Validation.ListPending)
		adminAPI.POST("/submissions/:id/validate", handlers.Validation.ValidateSubmission)
		adminAPI.GET("/submissions/stats", handlers.Validation.ValidationStats)

		// Admin account management
		adminAPI.GET("/admins", handlers.Admin.ListAdmins)
		adminAPI.POST("/admins", handlers.Admin.CreateAdmin)
		adminAPI.DELETE("/admins/:id", handlers.Admin.DeleteAdmin)

		// Event settings
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetSettings)
			settingsGroup.PUT("", handlers.Setting.UpdateSettings)
			settingsGroup.DELETE("/:key", handlers.Setting.DeleteSetting)
		}

		// Operational status
		adminAPI.GET("/system/status", handlers.System.SystemStatus)
	}

	return router
}
