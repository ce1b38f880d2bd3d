package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/db"
	"github.com/templui/userfiles/internal/repository"
	"github.com/templui/userfiles/internal/service"
	"github.com/templui/userfiles/internal/storage"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	AuthService *service.AuthService
	UserService *service.UserService
	FileService *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewWithStorage(cfg, fileStorage)
}

// NewWithStorage wires the app around an already constructed blob store
func NewWithStorage(cfg *config.Config, fileStorage storage.Storage) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(context.Background(), database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.AppURL, cfg.JWTExpiry, cfg.IsProduction())
	userService := service.NewUserService(userRepository)
	fileService := service.NewFileService(fileRepository, userRepository, fileStorage, cfg.UploadMaxFilename)

	return &App{
		Cfg:         cfg,
		DB:          database,
		AuthService: authService,
		UserService: userService,
		FileService: fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
