package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	auditapp "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	bankingapp "github.com/rmcsharry/hq-api/internal/application/banking"
	cascadeapp "github.com/rmcsharry/hq-api/internal/application/cascade"
	contactapp "github.com/rmcsharry/hq-api/internal/application/contact"
	documentapp "github.com/rmcsharry/hq-api/internal/application/document"
	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	identityapp "github.com/rmcsharry/hq-api/internal/application/identity"
	listapp "github.com/rmcsharry/hq-api/internal/application/list"
	mandateapp "github.com/rmcsharry/hq-api/internal/application/mandate"
	newsletterapp "github.com/rmcsharry/hq-api/internal/application/newsletter"
	taskapp "github.com/rmcsharry/hq-api/internal/application/task"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/infrastructure/auth"
	"github.com/rmcsharry/hq-api/internal/infrastructure/config"
	"github.com/rmcsharry/hq-api/internal/infrastructure/logger"
	"github.com/rmcsharry/hq-api/internal/infrastructure/mailer"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence"
	"github.com/rmcsharry/hq-api/internal/infrastructure/storage"
	"github.com/rmcsharry/hq-api/internal/infrastructure/telemetry"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/handler"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/middleware"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting hq-api",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize database connection. SQL statement logging only outside
	// production.
	gormLogLevel := gormlogger.Silent
	if cfg.App.Env != "production" {
		gormLogLevel = gormlogger.Warn
	}
	db, err := persistence.NewDatabase(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing and metrics (if enabled)
	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		mp, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		lp, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize logger provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
			if err := mp.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
			if err := lp.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down logger provider", zap.Error(err))
			}
		}()
		// Tee log entries into the collector alongside stdout.
		otelCore := telemetry.NewZapOTELCore(lp, cfg.App.Name, zapcore.InfoLevel)
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
		log.Info("Telemetry enabled",
			zap.String("endpoint", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	userGroupRepo := persistence.NewGormUserGroupRepository(db.DB)
	mandateGroupRepo := persistence.NewGormMandateGroupRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	contactDetailRepo := persistence.NewGormContactDetailRepository(db.DB)
	taxDetailRepo := persistence.NewGormTaxDetailRepository(db.DB)
	complianceDetailRepo := persistence.NewGormComplianceDetailRepository(db.DB)
	relationshipRepo := persistence.NewGormRelationshipRepository(db.DB)
	mandateRepo := persistence.NewGormMandateRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	fundRepo := persistence.NewGormFundRepository(db.DB)
	investorRepo := persistence.NewGormInvestorRepository(db.DB)
	cashflowRepo := persistence.NewGormCashflowRepository(db.DB)
	fundReportRepo := persistence.NewGormFundReportRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	taskCommentRepo := persistence.NewGormTaskCommentRepository(db.DB)
	listRepo := persistence.NewGormListRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)
	versionRepo := persistence.NewGormVersionRepository(db.DB)

	// Authorization, audit trail and cascading deletion. The unit of work
	// binds each mutation and its version records into one transaction.
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), userGroupRepo)
	recorder := auditapp.NewRecorder(versionRepo)
	uow := persistence.NewGormUnitOfWork(db.DB)
	historyService := auditapp.NewHistoryService(versionRepo)
	planner := cascade.NewPlanner(cascade.DefaultPolicy, persistence.NewGormCascadeLookup(db.DB))
	deleter := cascadeapp.NewService(planner, persistence.NewGormCascadeExecutor(db.DB))

	// Token handling
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	// Outbound mail and newsletter sync
	appMailer := mailer.NewLoggingMailer(cfg.Mailer, log)
	var subscriberSync newsletterapp.SubscriberSync
	if cfg.Mailer.NewsletterAPIKey != "" && cfg.Mailer.NewsletterAPIBase != "" {
		subscriberSync = mailer.NewHTTPSubscriberSync(cfg.Mailer.NewsletterAPIBase, cfg.Mailer)
		log.Info("Newsletter sync enabled", zap.String("api_base", cfg.Mailer.NewsletterAPIBase))
	} else {
		subscriberSync = mailer.NewNoopSubscriberSync()
	}

	// Object storage for documents
	var objectStorage documentapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage connected", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("No storage bucket configured, using stub object storage")
	}

	// Initialize application services
	userService := identityapp.NewUserService(userRepo, authorizer, recorder, appMailer, uow)
	userGroupService := identityapp.NewUserGroupService(userGroupRepo, authorizer, recorder, uow)
	mandateGroupService := identityapp.NewMandateGroupService(mandateGroupRepo, authorizer, recorder, uow)
	contactService := contactapp.NewContactService(contactRepo, authorizer, recorder, deleter, uow)
	addressService := contactapp.NewAddressService(addressRepo, contactRepo, authorizer, recorder, uow)
	detailService := contactapp.NewDetailService(contactDetailRepo, contactRepo, authorizer, recorder, uow)
	taxDetailService := contactapp.NewTaxDetailService(taxDetailRepo, authorizer, recorder, uow)
	complianceDetailService := contactapp.NewComplianceDetailService(complianceDetailRepo, authorizer, recorder, uow)
	relationshipService := contactapp.NewRelationshipService(relationshipRepo, contactRepo, authorizer, recorder, uow)
	mandateService := mandateapp.NewMandateService(mandateRepo, mandateGroupRepo, authorizer, recorder, deleter, uow)
	activityService := mandateapp.NewActivityService(activityRepo, mandateRepo, authorizer, recorder, uow)
	fundService := fundapp.NewFundService(fundRepo, authorizer, recorder, deleter, uow)
	investorService := fundapp.NewInvestorService(investorRepo, fundRepo, authorizer, recorder, deleter, uow)
	cashflowService := fundapp.NewCashflowService(cashflowRepo, investorRepo, fundRepo, authorizer, recorder, uow)
	fundReportService := fundapp.NewReportService(fundReportRepo, fundRepo, authorizer, recorder, uow)
	bankAccountService := bankingapp.NewBankAccountService(bankAccountRepo, mandateRepo, authorizer, recorder, uow)
	documentService := documentapp.NewService(documentRepo, mandateRepo, activityRepo, objectStorage, authorizer, recorder, uow)
	documentService.SetConfig(documentapp.ServiceConfig{
		UploadURLExpiry:   cfg.Storage.PresignExpiration,
		DownloadURLExpiry: cfg.Storage.PresignExpiration,
	})
	taskService := taskapp.NewTaskService(taskRepo, taskCommentRepo, authorizer, recorder, deleter, uow)
	listService := listapp.NewService(listRepo, authorizer, recorder, uow)
	subscriberService := newsletterapp.NewSubscriberService(subscriberRepo, appMailer, subscriberSync, authorizer, recorder, uow)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userRepo, userService, jwtService, blacklist)
	userHandler := handler.NewUserHandler(userService)
	userGroupHandler := handler.NewUserGroupHandler(userGroupService)
	mandateGroupHandler := handler.NewMandateGroupHandler(mandateGroupService)
	contactHandler := handler.NewContactHandler(contactService)
	addressHandler := handler.NewAddressHandler(addressService)
	contactDetailHandler := handler.NewContactDetailHandler(detailService, taxDetailService, complianceDetailService)
	relationshipHandler := handler.NewRelationshipHandler(relationshipService)
	mandateHandler := handler.NewMandateHandler(mandateService)
	activityHandler := handler.NewActivityHandler(activityService)
	fundHandler := handler.NewFundHandler(fundService)
	investorHandler := handler.NewInvestorHandler(investorService)
	cashflowHandler := handler.NewCashflowHandler(cashflowService)
	fundReportHandler := handler.NewReportHandler(fundReportService)
	bankAccountHandler := handler.NewBankAccountHandler(bankAccountService)
	documentHandler := handler.NewDocumentHandler(documentService)
	taskHandler := handler.NewTaskHandler(taskService)
	listHandler := handler.NewListHandler(listService)
	newsletterHandler := handler.NewNewsletterHandler(subscriberService)
	versionHandler := handler.NewVersionHandler(historyService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.RequestLogger(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.Metrics())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply authentication middleware to API routes.
	// Public endpoints are listed as skip paths; everything else requires
	// either a bearer token or the EWS shared key plus user email.
	r.Use(middleware.Auth(middleware.AuthConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Authorizer:     authorizer,
		Users:          userRepo,
		SkipPaths: []string{
			"/api/v1/auth/sign-in",
			"/api/v1/auth/refresh",
			"/api/v1/users/confirm",
			"/api/v1/users/accept-invitation",
			"/api/v1/users/request-password-reset",
			"/api/v1/users/reset-password",
			"/api/v1/newsletter/subscriptions",
			"/api/v1/newsletter/subscriptions/confirm",
			"/api/v1/ping",
		},
		Logger: log,
	}))

	// Authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/sign-in", authHandler.SignIn)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/sign-out", authHandler.SignOut)
	authRoutes.GET("/me", authHandler.GetCurrentUser)

	// User management and account lifecycle
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/invite", userHandler.Invite)
	userRoutes.POST("/confirm", userHandler.Confirm)
	userRoutes.POST("/accept-invitation", userHandler.AcceptInvitation)
	userRoutes.POST("/request-password-reset", userHandler.RequestPasswordReset)
	userRoutes.POST("/reset-password", userHandler.ResetPassword)

	// Group management
	userGroupRoutes := router.NewDomainGroup("user-groups", "/user-groups")
	userGroupRoutes.POST("", userGroupHandler.Create)
	userGroupRoutes.GET("", userGroupHandler.List)
	userGroupRoutes.GET("/:id", userGroupHandler.GetByID)
	userGroupRoutes.PUT("/:id", userGroupHandler.Update)
	userGroupRoutes.DELETE("/:id", userGroupHandler.Delete)

	mandateGroupRoutes := router.NewDomainGroup("mandate-groups", "/mandate-groups")
	mandateGroupRoutes.POST("", mandateGroupHandler.Create)
	mandateGroupRoutes.GET("", mandateGroupHandler.List)
	mandateGroupRoutes.GET("/:id", mandateGroupHandler.GetByID)
	mandateGroupRoutes.PUT("/:id", mandateGroupHandler.Update)
	mandateGroupRoutes.DELETE("/:id", mandateGroupHandler.Delete)

	// Contacts and their sub-resources
	contactRoutes := router.NewDomainGroup("contacts", "/contacts")
	contactRoutes.POST("", contactHandler.Create)
	contactRoutes.GET("", contactHandler.List)
	contactRoutes.GET("/:id", contactHandler.GetByID)
	contactRoutes.PUT("/:id", contactHandler.Update)
	contactRoutes.DELETE("/:id", contactHandler.Delete)
	contactRoutes.POST("/:id/addresses", addressHandler.Create)
	contactRoutes.GET("/:id/addresses", addressHandler.ListByContact)
	contactRoutes.POST("/:id/details", contactDetailHandler.CreateDetail)
	contactRoutes.GET("/:id/details", contactDetailHandler.ListDetails)
	contactRoutes.GET("/:id/tax-detail", contactDetailHandler.GetTaxDetail)
	contactRoutes.PUT("/:id/tax-detail", contactDetailHandler.SaveTaxDetail)
	contactRoutes.GET("/:id/compliance-detail", contactDetailHandler.GetComplianceDetail)
	contactRoutes.PUT("/:id/compliance-detail", contactDetailHandler.SaveComplianceDetail)
	contactRoutes.GET("/:id/relationships", relationshipHandler.ListByContact)
	contactRoutes.GET("/:id/activities", activityHandler.ListByContact)
	contactRoutes.GET("/:id/versions", versionHandler.History("Contact"))
	contactRoutes.GET("/:id/versions/combined", versionHandler.CombinedHistory("Contact"))

	addressRoutes := router.NewDomainGroup("addresses", "/addresses")
	addressRoutes.PUT("/:id", addressHandler.Update)
	addressRoutes.DELETE("/:id", addressHandler.Delete)

	contactDetailRoutes := router.NewDomainGroup("contact-details", "/contact-details")
	contactDetailRoutes.PUT("/:id", contactDetailHandler.UpdateDetail)
	contactDetailRoutes.DELETE("/:id", contactDetailHandler.DeleteDetail)

	relationshipRoutes := router.NewDomainGroup("relationships", "/relationships")
	relationshipRoutes.POST("", relationshipHandler.Create)
	relationshipRoutes.DELETE("/:id", relationshipHandler.Delete)

	// Mandates
	mandateRoutes := router.NewDomainGroup("mandates", "/mandates")
	mandateRoutes.POST("", mandateHandler.Create)
	mandateRoutes.GET("", mandateHandler.List)
	mandateRoutes.GET("/:id", mandateHandler.GetByID)
	mandateRoutes.PUT("/:id", mandateHandler.Update)
	mandateRoutes.DELETE("/:id", mandateHandler.Delete)
	mandateRoutes.POST("/:id/members", mandateHandler.AddMember)
	mandateRoutes.DELETE("/:id/members/:member_id", mandateHandler.RemoveMember)
	mandateRoutes.POST("/:id/become-client", mandateHandler.BecomeClient)
	mandateRoutes.POST("/:id/become-prospect", mandateHandler.BecomeProspect)
	mandateRoutes.POST("/:id/cancel", mandateHandler.Cancel)
	mandateRoutes.GET("/:id/activities", activityHandler.ListByMandate)
	mandateRoutes.GET("/:id/versions", versionHandler.History("Mandate"))
	mandateRoutes.GET("/:id/versions/combined", versionHandler.CombinedHistory("Mandate"))

	// Activities
	activityRoutes := router.NewDomainGroup("activities", "/activities")
	activityRoutes.POST("", activityHandler.Create)
	activityRoutes.GET("/:id", activityHandler.GetByID)
	activityRoutes.PUT("/:id", activityHandler.Update)
	activityRoutes.DELETE("/:id", activityHandler.Delete)
	activityRoutes.GET("/:id/versions", versionHandler.History("Activity"))

	// Funds, investors, cashflows and reports
	fundRoutes := router.NewDomainGroup("funds", "/funds")
	fundRoutes.POST("", fundHandler.Create)
	fundRoutes.GET("", fundHandler.List)
	fundRoutes.GET("/:id", fundHandler.GetByID)
	fundRoutes.PUT("/:id", fundHandler.Update)
	fundRoutes.DELETE("/:id", fundHandler.Delete)
	fundRoutes.POST("/:id/close", fundHandler.Close)
	fundRoutes.POST("/:id/reopen", fundHandler.Reopen)
	fundRoutes.POST("/:id/investors", investorHandler.Create)
	fundRoutes.GET("/:id/investors", investorHandler.ListByFund)
	fundRoutes.POST("/:id/cashflows", cashflowHandler.Create)
	fundRoutes.GET("/:id/cashflows", cashflowHandler.ListByFund)
	fundRoutes.POST("/:id/reports", fundReportHandler.Create)
	fundRoutes.GET("/:id/reports", fundReportHandler.ListByFund)
	fundRoutes.GET("/:id/versions", versionHandler.History("Fund"))
	fundRoutes.GET("/:id/versions/combined", versionHandler.CombinedHistory("Fund"))

	investorRoutes := router.NewDomainGroup("investors", "/investors")
	investorRoutes.GET("/:id", investorHandler.GetByID)
	investorRoutes.POST("/:id/sign", investorHandler.Sign)
	investorRoutes.DELETE("/:id", investorHandler.Delete)

	cashflowRoutes := router.NewDomainGroup("cashflows", "/cashflows")
	cashflowRoutes.GET("/:id", cashflowHandler.GetByID)

	cashflowLineRoutes := router.NewDomainGroup("cashflow-lines", "/cashflow-lines")
	cashflowLineRoutes.POST("/:id/finish", cashflowHandler.FinishLine)

	fundReportRoutes := router.NewDomainGroup("fund-reports", "/reports")
	fundReportRoutes.DELETE("/:id", fundReportHandler.Delete)

	// Bank accounts
	bankAccountRoutes := router.NewDomainGroup("bank-accounts", "/bank-accounts")
	bankAccountRoutes.POST("", bankAccountHandler.Create)
	bankAccountRoutes.GET("", bankAccountHandler.ListByOwner)
	bankAccountRoutes.PUT("/:id", bankAccountHandler.Update)
	bankAccountRoutes.DELETE("/:id", bankAccountHandler.Delete)

	// Documents
	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.POST("", documentHandler.InitiateUpload)
	documentRoutes.GET("", documentHandler.ListByOwner)
	documentRoutes.GET("/:id", documentHandler.GetByID)
	documentRoutes.GET("/:id/download", documentHandler.Download)
	documentRoutes.PUT("/:id", documentHandler.Update)
	documentRoutes.DELETE("/:id", documentHandler.Delete)

	// Tasks and comments
	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.GET("/:id", taskHandler.GetByID)
	taskRoutes.PUT("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)
	taskRoutes.POST("/:id/finish", taskHandler.Finish)
	taskRoutes.POST("/:id/unfinish", taskHandler.Unfinish)
	taskRoutes.POST("/:id/assignees/:user_id", taskHandler.Assign)
	taskRoutes.DELETE("/:id/assignees/:user_id", taskHandler.Unassign)
	taskRoutes.POST("/:id/comments", taskHandler.AddComment)
	taskRoutes.GET("/:id/comments", taskHandler.ListComments)
	taskRoutes.GET("/:id/versions", versionHandler.History("Task"))

	taskCommentRoutes := router.NewDomainGroup("task-comments", "/task-comments")
	taskCommentRoutes.DELETE("/:id", taskHandler.DeleteComment)

	// Lists
	listRoutes := router.NewDomainGroup("lists", "/lists")
	listRoutes.POST("", listHandler.Create)
	listRoutes.GET("", listHandler.List)
	listRoutes.GET("/:id", listHandler.GetByID)
	listRoutes.PUT("/:id", listHandler.Update)
	listRoutes.DELETE("/:id", listHandler.Delete)
	listRoutes.POST("/:id/archive", listHandler.Archive)
	listRoutes.POST("/:id/unarchive", listHandler.Unarchive)
	listRoutes.POST("/:id/items", listHandler.AddItem)
	listRoutes.DELETE("/:id/items", listHandler.RemoveItem)

	// Newsletter
	newsletterRoutes := router.NewDomainGroup("newsletter", "/newsletter")
	newsletterRoutes.POST("/subscriptions", newsletterHandler.Subscribe)
	newsletterRoutes.POST("/subscriptions/confirm", newsletterHandler.Confirm)
	newsletterRoutes.GET("/subscribers", newsletterHandler.List)
	newsletterRoutes.DELETE("/subscribers/:id", newsletterHandler.Delete)

	// Register all domain groups
	r.Register(authRoutes).
		Register(userRoutes).
		Register(userGroupRoutes).
		Register(mandateGroupRoutes).
		Register(contactRoutes).
		Register(addressRoutes).
		Register(contactDetailRoutes).
		Register(relationshipRoutes).
		Register(mandateRoutes).
		Register(activityRoutes).
		Register(fundRoutes).
		Register(investorRoutes).
		Register(cashflowRoutes).
		Register(cashflowLineRoutes).
		Register(fundReportRoutes).
		Register(bankAccountRoutes).
		Register(documentRoutes).
		Register(taskRoutes).
		Register(taskCommentRoutes).
		Register(listRoutes).
		Register(newsletterRoutes)

	// Setup routes
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", systemHandler.Ping)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
