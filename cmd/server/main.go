package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ronilson-users/backend-work-v2/internal/client"
	"github.com/ronilson-users/backend-work-v2/internal/config"
	"github.com/ronilson-users/backend-work-v2/internal/handler"
	"github.com/ronilson-users/backend-work-v2/internal/middleware"
	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/service"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	ws "github.com/ronilson-users/backend-work-v2/internal/websocket"
	"github.com/ronilson-users/backend-work-v2/internal/worker"
	"github.com/ronilson-users/backend-work-v2/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger
	var zl *zap.Logger
	if cfg.Server.Env == "production" {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Open the store
	st, err := store.Open(store.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, zl)
	if err != nil {
		zl.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer st.Close()

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub(zl)
	go hub.Run()

	// Initialize object storage; photo upload stays off when unset
	var storage client.StorageClient
	if s3c, err := client.NewS3Client(&cfg.S3); err == nil {
		storage = s3c
	} else {
		zl.Warn("Photo storage disabled", zap.Error(err))
	}

	// Initialize stores
	jobStore := store.NewJobStore(st)
	contractStore := store.NewContractStore(st)
	sessionStore := store.NewSessionStore(st)
	userStore := store.NewUserStore(st)

	// Initialize services
	notifier := service.NewNotifier(asynqClient, zl)
	authService := service.NewAuthService(userStore)
	jobService := service.NewJobService(jobStore, userStore)
	contractService := service.NewContractService(contractStore, jobStore)
	workService := service.NewWorkService(sessionStore, contractStore, jobStore)
	routeService := service.NewRouteService(sessionStore, contractStore, jobStore, hub)
	lifecycle := service.NewLifecycle(jobService, contractService, workService, notifier)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Expiration)
	rateLimiter := middleware.NewRateLimiter(st.Client())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, authMiddleware, validate)
	jobHandler := handler.NewJobHandler(jobService, lifecycle, validate)
	contractHandler := handler.NewContractHandler(contractService, lifecycle, validate)
	workHandler := handler.NewWorkHandler(workService, routeService, lifecycle, storage, validate)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    25 * 1024 * 1024, // photo payloads
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := st.HealthCheck(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	auth := app.Group("/api/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authMiddleware.Authenticate(), authHandler.Me)

	// Job routes; listing and detail stay public for discovery
	jobs := app.Group("/api/jobs")
	jobs.Get("/", jobHandler.List)
	jobs.Get("/company/my", authMiddleware.Authenticate(), middleware.RequireRole(model.RoleCompany), jobHandler.MyCompanyJobs)
	jobs.Get("/:id", jobHandler.Get)
	jobs.Post("/",
		authMiddleware.Authenticate(),
		middleware.RequireRole(model.RoleCompany),
		rateLimiter.JobWriteLimit(cfg.RateLimit.JobWritesPerHour),
		jobHandler.Create)
	jobs.Put("/:id",
		authMiddleware.Authenticate(),
		middleware.RequireRole(model.RoleCompany),
		rateLimiter.JobWriteLimit(cfg.RateLimit.JobWritesPerHour),
		jobHandler.Update)
	jobs.Post("/:id/apply",
		authMiddleware.Authenticate(),
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.ApplyLimit(cfg.RateLimit.AppliesPerHour),
		jobHandler.Apply)
	jobs.Patch("/:id/select-worker",
		authMiddleware.Authenticate(),
		middleware.RequireRole(model.RoleCompany),
		jobHandler.SelectWorker)
	jobs.Patch("/:id/cancel", authMiddleware.Authenticate(), jobHandler.Cancel)

	// Contract routes
	contracts := app.Group("/api/contracts", authMiddleware.Authenticate())
	contracts.Post("/from-job/:jobId", middleware.RequireRole(model.RoleCompany), contractHandler.CreateFromJob)
	contracts.Get("/my", contractHandler.My)
	contracts.Get("/:id", contractHandler.Get)
	contracts.Post("/:id/sign", contractHandler.Sign)
	contracts.Patch("/:id/status", contractHandler.UpdateStatus)

	// Work session routes
	work := app.Group("/api/work", authMiddleware.Authenticate())
	work.Post("/contracts/:contractId/check-in",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.CheckLimit(cfg.RateLimit.ChecksPerHour),
		workHandler.CheckIn)
	work.Post("/contracts/:contractId/route",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.CheckLimit(cfg.RateLimit.ChecksPerHour),
		workHandler.CreateRouteSession)
	work.Post("/contracts/:contractId/photos",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.UploadLimit(cfg.RateLimit.UploadsPerHour),
		workHandler.UploadPhoto)
	work.Get("/sessions/my", workHandler.MySessions)
	work.Get("/stats", workHandler.Stats)
	work.Get("/sessions/:id", workHandler.GetSession)
	work.Post("/sessions/:id/check-out",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.CheckLimit(cfg.RateLimit.ChecksPerHour),
		workHandler.CheckOut)
	work.Patch("/sessions/:id/confirm",
		middleware.RequireRole(model.RoleCompany),
		workHandler.ConfirmSession)
	work.Post("/sessions/:id/locations/:index/check-in",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.CheckLimit(cfg.RateLimit.ChecksPerHour),
		workHandler.CheckInLocation)
	work.Post("/sessions/:id/locations/:index/check-out",
		middleware.RequireRole(model.RoleWorker),
		rateLimiter.CheckLimit(cfg.RateLimit.ChecksPerHour),
		workHandler.CheckOutLocation)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/sessions/:sessionId", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("sessionId"))
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, zl)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("Server shutdown error", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Server.Port
	zl.Info("Server starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zl.Fatal("Server error", zap.Error(err))
	}
}

func startWorkerServer(cfg *config.Config, zl *zap.Logger) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"notifications": 10,
			},
		},
	)

	notificationWorker := worker.NewNotificationWorker(&worker.LogDispatcher{Log: zl}, zl)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeNotification, notificationWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		zl.Error("Asynq worker error", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, response.CodeServiceError, message, nil)
}
