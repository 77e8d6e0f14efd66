package main

import (
	"log"

	"kaizen/backend/config"
	"kaizen/backend/middleware"
	"kaizen/backend/routes"
	"kaizen/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := utils.InitLogger()

	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}
	logger.Printf("connected to database %q at %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	routes.SetupRoutes(app, db, cfg)

	logger.Printf("listening on :%s", cfg.ServerPort)
	logger.Fatal(app.Listen(":" + cfg.ServerPort))
}
