package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "socialhub/api/v1"
	"socialhub/internal/auth"
	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/db"
	"socialhub/internal/metrics"
	"socialhub/internal/oauth"
	"socialhub/internal/provider"
	"socialhub/internal/provider/linkedin"
	"socialhub/internal/provider/twitter"
	"socialhub/internal/scheduler"
	"socialhub/internal/version"
	"socialhub/internal/ws"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	if os.Getenv("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
			os.Exit(1)
		}
		log.Println("✓ Database migrated")
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Initialize Socket.IO server for admin live updates
	if err := ws.InitServer(); err != nil {
		log.Fatalf("Failed to initialize WebSocket server: %v", err)
		os.Exit(1)
	}

	// 6. Build domain services
	registry := version.NewRegistry()
	versionStore := version.NewRedisStore(cache.GetClient(),
		time.Duration(cfg.Version.CookieMaxAgeDays)*24*time.Hour)

	providers := provider.NewRegistry(
		twitter.New(twitter.Config{
			Logger:          logrus.NewEntry(logrus.StandardLogger()),
			PollInterval:    time.Duration(cfg.Twitter.PollIntervalSec) * time.Second,
			MaxPollAttempts: cfg.Twitter.PollMaxAttempts,
		}),
		linkedin.New(linkedin.Config{
			Logger:          logrus.NewEntry(logrus.StandardLogger()),
			PollInterval:    time.Duration(cfg.LinkedIn.PollIntervalSec) * time.Second,
			MaxPollAttempts: cfg.LinkedIn.PollMaxAttempts,
		}),
	)

	oauthService := oauth.NewService(db.GetDB(), cache.GetClient(), cfg,
		logrus.NewEntry(logrus.StandardLogger()))

	collector := metrics.NewCollector()

	worker := scheduler.NewWorker(scheduler.Config{
		Store:      scheduler.NewGormStore(db.GetDB()),
		Providers:  providers,
		Metrics:    collector,
		Notifier:   &ws.Notifier{DB: db.GetDB()},
		Tokens:     oauthService,
		Interval:   time.Duration(cfg.Worker.IntervalSec) * time.Second,
		ClaimLease: time.Duration(cfg.Worker.ClaimLeaseSec) * time.Second,
	})
	if cfg.Worker.Enabled {
		worker.Start()
		defer worker.Stop()
	}

	// 7. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Any("/socket.io/*any", gin.WrapH(ws.WrapWithAuth(ws.Server)))

	// Setup API v1 routes
	v1.SetupRouter(r, v1.Deps{
		DB:           db.GetDB(),
		Config:       cfg,
		Versions:     registry,
		VersionStore: versionStore,
		OAuth:        oauthService,
		Worker:       worker,
		Metrics:      collector,
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
