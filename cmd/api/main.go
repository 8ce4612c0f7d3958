package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventstage/config"
	"eventstage/internal/adapters/auth"
	"eventstage/internal/adapters/cloudinary"
	"eventstage/internal/adapters/email"
	httpdelivery "eventstage/internal/delivery/http"
	"eventstage/internal/delivery/http/controllers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/repository/postgres"
	"eventstage/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title EventStage API
// @version 1.0
// @description Event management backend: organizer-owned events, public
// @description registrations, and best-effort media asset cleanup.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(12)
	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)
	mediaStore := cloudinary.NewMediaStore(
		&http.Client{Timeout: cfg.Cloudinary.Timeout},
		cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		},
	)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SES.Region,
			AccessKeyID:        cfg.Email.SES.AccessKeyID,
			SecretAccessKey:    cfg.Email.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.SES.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	// Services
	emailService := services.NewEmailService(mailer, renderer)
	eventService := services.NewEventService(eventRepo, categoryRepo, mediaStore, logger, serviceTimeout)
	participantService := services.NewParticipantService(participantRepo, eventRepo, emailService, cfg.FrontendURL, logger, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, serviceTimeout)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokenCodec, cfg.TokenExpiry)

	// Controllers
	eventController := controllers.NewEventController(logger, eventService)
	participantController := controllers.NewParticipantController(logger, participantService)
	categoryController := controllers.NewCategoryController(logger, categoryService)
	authController := controllers.NewAuthController(logger, authService)

	mux := httpdelivery.NewRouter(eventController, participantController, categoryController, authController, tokenCodec, logger)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
