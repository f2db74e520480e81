package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"finquest-progression/config"
	"finquest-progression/handlers"
	"finquest-progression/middleware"
	"finquest-progression/models"
	"finquest-progression/services"
	"finquest-progression/utils"
	"finquest-progression/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.ProgressionEvent{},
		&models.LeaderboardSnapshot{},
		&models.AchievementType{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	progressionService := services.NewProgressionService(db)
	academyService := services.NewAcademyService(db)
	achievementService := services.NewAchievementService(db)
	if err := achievementService.SeedCatalog(ctx); err != nil {
		log.Fatal("failed to seed achievement catalog:", err)
	}

	var archive utils.Archive
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Archive(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		archive = r2
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set, leaderboard snapshots will not be archived")
	}

	leaderboardService := services.NewLeaderboardService(db, archive, cfg.LeaderboardRefresh)
	scheduler, err := leaderboardService.StartRefreshScheduler(ctx, cfg.LeaderboardRefresh)
	if err != nil {
		log.Fatal("failed to start leaderboard scheduler:", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("scheduler shutdown: %v", err)
		}
	}()

	if cfg.ProfileSyncURL != "" {
		workers.NewProfileSyncWorker(db, cfg.ProfileSyncURL, cfg.ServiceToken, cfg.ProfileSyncInterval).Start(ctx)
	} else {
		log.Println("⚠️  PROFILE_SYNC_URL not set, profile sync worker disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:   "finquest-progression",
		BodyLimit: 1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐❗ GLOBAL: Only Gateway requests allowed, except probes and the SSE stream
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken, "/health", handlers.StreamPath))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.SetupProgressionRoutes(app, handlers.Services{
		Progression:  progressionService,
		Academy:      academyService,
		Achievements: achievementService,
		Leaderboard:  leaderboardService,
		BoardSize:    cfg.LeaderboardSize,
	})

	if cfg.AuthServiceURL != "" {
		authClient := services.NewAuthServiceClient(cfg.AuthServiceURL, cfg.ServiceToken)
		handlers.SetupStreamRoutes(app, services.NewEventStream(db), authClient)
		log.Printf("✅ Progression event stream on %s", handlers.StreamPath)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Leaderboards refreshed every %s (archive enabled: %t)", cfg.LeaderboardRefresh, archive != nil)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
