package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/config"
	"github.com/templui/corpsite/internal/db"
	"github.com/templui/corpsite/internal/markdown"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/service"
	"github.com/templui/corpsite/internal/storage"
	"github.com/templui/corpsite/internal/token"
	"github.com/templui/corpsite/internal/upload"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Storage            storage.Storage
	Gate               *auth.Gate
	AuthService        *service.AuthService
	UserService        *service.UserService
	EmailService       *service.EmailService
	CatalogService     *service.CatalogService
	ProjectService     *service.ProjectService
	TeamService        *service.TeamService
	TestimonialService *service.TestimonialService
	InboxService       *service.InboxService
	SettingsService    *service.SettingsService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	app, err := Wire(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	err = app.AuthService.BootstrapAdmin("Administrator", cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to bootstrap admin: %v", err)
	}

	return app, nil
}

// Wire builds every repository and service on top of an open, migrated database.
func Wire(cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	serviceRepository := repository.NewServiceRepository(database)
	projectRepository := repository.NewProjectRepository(database)
	teamRepository := repository.NewTeamRepository(database)
	testimonialRepository := repository.NewTestimonialRepository(database)
	messageRepository := repository.NewMessageRepository(database)
	quoteRepository := repository.NewQuoteRepository(database)
	settingRepository := repository.NewSettingRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Tokens
	codec, err := token.NewCodec(cfg.TokenCodec, cfg.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ContactEmail,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	media := service.NewMediaService(upload.NewPersister(fileStorage))
	md := markdown.NewParser()

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Storage:            fileStorage,
		Gate:               auth.NewGate(codec),
		AuthService:        service.NewAuthService(userRepository, codec, cfg.TokenExpiry),
		UserService:        service.NewUserService(userRepository),
		EmailService:       emailService,
		CatalogService:     service.NewCatalogService(serviceRepository, media, md),
		ProjectService:     service.NewProjectService(projectRepository, media, md),
		TeamService:        service.NewTeamService(teamRepository, media),
		TestimonialService: service.NewTestimonialService(testimonialRepository, media),
		InboxService:       service.NewInboxService(messageRepository, quoteRepository, emailService),
		SettingsService:    service.NewSettingsService(settingRepository, media),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
