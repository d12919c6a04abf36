package main

import (
	"context"
	"log"

	"retailpos/config"
	"retailpos/database"
	"retailpos/handlers"
	"retailpos/middleware"
	"retailpos/models"
	"retailpos/routes"
	"retailpos/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	config.Load()
	middleware.SetLevel(config.AppConfig.LogLevel)
	if config.AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	// Initialize database
	database.InitDB(config.AppConfig.DatabaseURL)
	defer database.CloseDB()

	// Load persisted state, falling back to seed data
	appStore := store.New(store.NewPgSlotStore(database.GetDB()), models.EmailSettings{
		APIKey:      config.AppConfig.SendGridAPIKey,
		SenderEmail: config.AppConfig.SenderEmail,
		SenderName:  config.AppConfig.SenderName,
	})
	if err := appStore.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load persisted state: %v", err)
	}
	handlers.SetStore(appStore)

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
