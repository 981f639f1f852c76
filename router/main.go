package router

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/handlers"
	admin_handlers "github.com/artsfest/artsfest-api/handlers/admin"
	appeal_handlers "github.com/artsfest/artsfest-api/handlers/appeal"
	auth_handlers "github.com/artsfest/artsfest-api/handlers/auth"
	item_handlers "github.com/artsfest/artsfest-api/handlers/item"
	result_handlers "github.com/artsfest/artsfest-api/handlers/result"
	student_handlers "github.com/artsfest/artsfest-api/handlers/student"
	team_handlers "github.com/artsfest/artsfest-api/handlers/team"
	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services"
	"github.com/artsfest/artsfest-api/services/spaces"
	"github.com/artsfest/artsfest-api/utils"
	"github.com/artsfest/artsfest-api/utils/auth"
	"github.com/artsfest/artsfest-api/utils/cache"
	"github.com/artsfest/artsfest-api/utils/middleware"
)

// Services groups the domain services the router builds, so the app
// setup can hand them to the cron manager.
type Services struct {
	Eligibility *services.EligibilityService
	Teams       *services.TeamService
	Results     *services.ResultService
	Imports     *services.ImportService
	Blacklist   *auth.BlacklistService
}

func SetupRoutes(app *fiber.App, store database.Storage) *Services {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "artsfest-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and leaderboard caching will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	var spacesClient *spaces.SpacesClient
	if env, envErr := config.Get(); envErr == nil && env.SPACES_ACCESS_KEY != "" {
		spacesClient, err = spaces.NewSpacesClient(spaces.SpacesConfig{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
			CDNURL:    env.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize Spaces client: %v. File uploads will be disabled.", err)
		}
	}

	festivalConfig := loadFestivalConfig(db)

	// Domain services
	eligibilityService := services.NewEligibilityService(db, festivalConfig)
	teamService := services.NewTeamService(db, eligibilityService)
	resultService := services.NewResultService(db, redisCache)
	importService := services.NewImportService(db)

	// Middleware + handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	studentHandler := student_handlers.NewStudentHandler(db, spacesClient)
	itemHandler := item_handlers.NewItemHandler(db, importService)
	teamHandler := team_handlers.NewTeamHandler(teamService, eligibilityService)
	resultHandler := result_handlers.NewResultHandler(resultService)
	appealHandler := appeal_handlers.NewAppealHandler(db, spacesClient)

	// Security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Public settings (registration open flag etc.)
	api.Get("/settings", utils.MakeHTTPHandleFunc(admin_handlers.GetPublicSettings, store))

	// Items: public catalogue, admin management
	items := api.Group("/items")
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.Get)
	items.Post("/", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "item_create", "items"), itemHandler.Create)
	items.Put("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "item_update", "items"), itemHandler.Update)
	items.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "item_delete", "items"), itemHandler.Delete)
	items.Post("/import", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "item_import", "items"), itemHandler.ImportCSV)

	// Item results: organizer writes, public reads
	items.Get("/:id/results", resultHandler.ListForItem)
	items.Post("/:id/results", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), resultHandler.Publish)
	items.Delete("/:id/results", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), resultHandler.Delete)
	items.Post("/:id/results/undo", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), resultHandler.Undo)

	// Students: college roster management
	students := api.Group("/students", authMiddleware.RequireCollege())
	students.Get("/", studentHandler.List)
	students.Get("/:id", studentHandler.Get)
	students.Post("/", studentHandler.Create)
	students.Put("/:id", studentHandler.Update)
	students.Delete("/:id", studentHandler.Delete)
	students.Post("/:id/id-card", studentHandler.UploadIDCard)

	// Teams: college registration
	teams := api.Group("/teams", authMiddleware.RequireCollege())
	teams.Get("/", teamHandler.List)
	teams.Get("/quotas", teamHandler.Quotas)
	teams.Post("/", teamHandler.Create)
	teams.Put("/:id", teamHandler.Edit)
	teams.Delete("/:id", teamHandler.Delete)

	// Leaderboards (public, cached)
	leaderboard := api.Group("/leaderboard")
	leaderboard.Get("/", resultHandler.Leaderboard)
	leaderboard.Get("/individual", resultHandler.IndividualLeaderboard)
	leaderboard.Get("/category/:category", resultHandler.CategoryLeaderboard)

	// College results (public)
	api.Get("/colleges/:id/results", resultHandler.ListForCollege)

	// Appeals
	appeals := api.Group("/appeals")
	appeals.Get("/", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), appealHandler.ListAll)
	appeals.Post("/", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), appealHandler.Send)
	appeals.Post("/:id/evidence", authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin), appealHandler.UploadEvidence)
	appeals.Get("/mine", authMiddleware.RequireCollege(), appealHandler.ListMine)
	appeals.Post("/:id/read", authMiddleware.RequireCollege(), appealHandler.MarkRead)

	// Brochures (public list, admin management)
	api.Get("/brochures", utils.MakeHTTPHandleFunc(admin_handlers.ListBrochures, store))

	// Admin routes
	adminGroup := api.Group("/admin", authMiddleware.RequireAdmin())

	adminGroup.Get("/users", utils.MakeHTTPHandleFunc(admin_handlers.ListUsers, store))
	adminGroup.Get("/users/:id", utils.MakeHTTPHandleFunc(admin_handlers.GetUser, store))
	adminGroup.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), utils.MakeHTTPHandleFunc(admin_handlers.UpdateUser, store))
	adminGroup.Post("/users/:id/reset-password", middleware.AdminAuditLog(db, "user_reset_password", "users"), utils.MakeHTTPHandleFunc(admin_handlers.ResetUserPassword, store))
	adminGroup.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), utils.MakeHTTPHandleFunc(admin_handlers.DeleteUser, store))

	adminGroup.Get("/colleges", utils.MakeHTTPHandleFunc(admin_handlers.ListColleges, store))
	adminGroup.Post("/colleges/import", middleware.AdminAuditLog(db, "college_import", "colleges"), func(c *fiber.Ctx) error {
		return admin_handlers.ImportColleges(c, importService)
	})

	adminGroup.Get("/settings", utils.MakeHTTPHandleFunc(admin_handlers.ListSettings, store))
	adminGroup.Get("/settings/:key", utils.MakeHTTPHandleFunc(admin_handlers.GetSetting, store))
	adminGroup.Put("/settings/:key", middleware.AdminAuditLog(db, "setting_update", "settings"), utils.MakeHTTPHandleFunc(admin_handlers.UpdateSetting, store))

	adminGroup.Get("/audit-logs", utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, store))
	adminGroup.Get("/cron-logs", utils.MakeHTTPHandleFunc(admin_handlers.ListCronLogs, store))

	adminGroup.Post("/brochures", middleware.AdminAuditLog(db, "brochure_upload", "brochures"), func(c *fiber.Ctx) error {
		return admin_handlers.UploadBrochure(c, store, spacesClient)
	})
	adminGroup.Put("/brochures/:id", middleware.AdminAuditLog(db, "brochure_update", "brochures"), utils.MakeHTTPHandleFunc(admin_handlers.UpdateBrochure, store))
	adminGroup.Delete("/brochures/:id", middleware.AdminAuditLog(db, "brochure_delete", "brochures"), func(c *fiber.Ctx) error {
		return admin_handlers.DeleteBrochure(c, store, spacesClient)
	})

	return &Services{
		Eligibility: eligibilityService,
		Teams:       teamService,
		Results:     resultService,
		Imports:     importService,
		Blacklist:   auth.NewBlacklistService(db),
	}
}

// loadFestivalConfig prefers the admin-edited setting row, then the
// FESTIVAL_CONFIG env override, then the built-in defaults.
func loadFestivalConfig(db *gorm.DB) config.FestivalConfig {
	var setting model.AppSetting
	if err := db.Where("key = ?", model.SettingFestivalConfig).First(&setting).Error; err == nil {
		var cfg config.FestivalConfig
		if err := json.Unmarshal([]byte(setting.Value), &cfg); err == nil && len(cfg.CategoryLimits) > 0 {
			return cfg
		}
		log.Printf("Warning: stored festival config is invalid, falling back to defaults")
	}

	cfg, err := config.LoadFestivalConfig()
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	return cfg
}
