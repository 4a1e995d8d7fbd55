package app

import (
	"fmt"
	"log"
	"os"

	"textilehub/app/controller"
	"textilehub/app/router"
	"textilehub/db"
	"textilehub/repository"
	"textilehub/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "TextileHub"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Initialize repositories
	designRepo := repository.NewDesignRepository()
	catalogueRepo := repository.NewCatalogueRepository()
	groupRepo := repository.NewGroupRepository()
	userRepo := repository.NewUserRepository()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtSecret)

	compositor, err := service.NewCompositor(appName)
	if err != nil {
		return fmt.Errorf("failed to initialize compositor: %w", err)
	}

	saver, err := service.NewLocalFileSaver(appName)
	if err != nil {
		return fmt.Errorf("failed to initialize file saver: %w", err)
	}
	negotiator := service.NewNegotiator(nil, saver, 0)
	previews := service.NewPreviewStore()
	manager := service.NewSessionManager()

	exportService := service.NewCatalogueExportService(catalogueRepo, designRepo, baseURL, appName)

	// Drive import is optional; it needs a Service Account credentials file
	var importService *service.DriveImportService
	if credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsPath != "" {
		driveClient, err := service.NewDriveClient(credentialsPath)
		if err != nil {
			return err
		}
		importService = service.NewDriveImportService(driveClient, designRepo)
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive import disabled")
	}

	// Create controllers
	controllers := &router.Controllers{
		Auth:      controller.NewAuthController(authService, userRepo),
		Design:    controller.NewDesignController(designRepo),
		Catalogue: controller.NewCatalogueController(catalogueRepo, exportService),
		Group:     controller.NewGroupController(groupRepo),
		Share: controller.NewShareController(
			designRepo, groupRepo, userRepo,
			manager, previews,
			compositor, negotiator, saver,
			service.LoggingLinkOpener{}, appName,
		),
		Import: controller.NewImportController(importService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers, controller.NewAuthMiddleware(authService))

	return nil
}
