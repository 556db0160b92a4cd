package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/handler"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Assessment    *handler.AssessmentHandler
	Plan          *handler.PlanHandler
	Chat          *handler.ChatHandler
	Notification  *handler.NotificationHandler
	Contest       *handler.ContestHandler
	Language      *handler.LanguageHandler
	WS            *handler.WSHandler
	AdminUser     *handler.AdminUserHandler
	AdminQuestion *handler.AdminQuestionHandler
	AdminContent  *handler.AdminContentHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// The caller owns authLimiter and stops it on shutdown.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	authLimiter *middleware.RateLimiter,
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

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		// The catalog changes only on admin edits; let clients cache it.
		publicAPI.GET("/languages", middleware.CacheControl(300), handlers.Language.List)
		publicAPI.GET("/cards", handlers.Language.Cards)
		publicAPI.GET("/contests", handlers.Contest.List)
		publicAPI.GET("/contests/:id", handlers.Contest.Get)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. User Group (JWT) ───────────────────────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(middleware.RequireUserJWT(authService))
	{
		userAPI.GET("/history", handlers.Assessment.History)
		userAPI.GET("/mock-status/:language", handlers.Assessment.MockStatus)
		userAPI.GET("/mock-completions", handlers.Assessment.MockCompletions)
		userAPI.POST("/save-result", handlers.Assessment.SaveResult)

		userAPI.GET("/study-plan", handlers.Plan.ListStudyPlans)
		userAPI.GET("/study-plan/:language", handlers.Plan.StudyPlan)
		userAPI.GET("/roadmap", handlers.Plan.ListRoadmaps)
		userAPI.GET("/roadmap/:language", handlers.Plan.Roadmap)

		userAPI.GET("/chat", handlers.Chat.History)
		userAPI.POST("/chat", handlers.Chat.Send)

		userAPI.GET("/notifications", handlers.Notification.List)
		userAPI.POST("/notifications/:id/read", handlers.Notification.MarkRead)

		// Live session operations. :kind is quiz or mock.
		userAPI.GET("/:kind/:language", handlers.Assessment.Open)
		userAPI.GET("/:kind/:language/state", handlers.Assessment.State)
		userAPI.GET("/:kind/:language/questions", handlers.Assessment.Questions)
		userAPI.GET("/:kind/:language/card", handlers.Assessment.Card)
		userAPI.POST("/:kind/:language/answer", handlers.Assessment.Answer)
		userAPI.POST("/:kind/:language/advance", handlers.Assessment.Advance)
		userAPI.POST("/:kind/:language/retreat", handlers.Assessment.Retreat)
		userAPI.POST("/:kind/:language/submit", handlers.Assessment.Submit)
		userAPI.POST("/:kind/:language/quit", handlers.Assessment.Quit)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/chat/stream", handlers.WS.ChatStream)
		ws.GET("/:kind/:language/stream", handlers.WS.AssessmentStream)
	}

	// ─── 4. Admin Group (JWT, admin token type) ────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// User management
		adminAPI.GET("/users", handlers.AdminUser.List)
		adminAPI.PUT("/users/:id/role", handlers.AdminUser.UpdateRole)
		adminAPI.DELETE("/users/:id", handlers.AdminUser.Delete)
		adminAPI.GET("/results", handlers.AdminUser.Results)

		// Question management
		adminAPI.GET("/questions", handlers.AdminQuestion.List)
		adminAPI.POST("/questions", handlers.AdminQuestion.Create)
		adminAPI.POST("/questions/generate", handlers.AdminQuestion.Generate)
		adminAPI.GET("/questions/:id", handlers.AdminQuestion.Get)
		adminAPI.PUT("/questions/:id", handlers.AdminQuestion.Update)
		adminAPI.DELETE("/questions/:id", handlers.AdminQuestion.Delete)

		// Language catalog
		adminAPI.POST("/languages", handlers.AdminContent.CreateLanguage)
		adminAPI.DELETE("/languages/:id", handlers.AdminContent.DeleteLanguage)

		// Cards
		adminAPI.POST("/cards", handlers.AdminContent.CreateCard)
		adminAPI.PUT("/cards/:id", handlers.AdminContent.UpdateCard)
		adminAPI.DELETE("/cards/:id", handlers.AdminContent.DeleteCard)

		// Notifications
		adminAPI.POST("/notifications", handlers.AdminContent.Broadcast)

		// Contests
		adminAPI.POST("/contests", handlers.AdminContent.CreateContest)
		adminAPI.PUT("/contests/:id", handlers.AdminContent.UpdateContest)
		adminAPI.DELETE("/contests/:id", handlers.AdminContent.DeleteContest)
	}

	return router
}
