package main

import (
	"log"

	"event-lists-go/config"
	"event-lists-go/health"
	"event-lists-go/middleware"
	"event-lists-go/redis"
	"event-lists-go/routes"
	"event-lists-go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.LoadConfig()

	dbService, err := services.NewDatabaseService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbService.Close()

	redis.InitRedis()
	defer redis.Close()

	app := fiber.New(fiber.Config{
		AppName:      "event-lists-api",
		ErrorHandler: middleware.GlobalErrorHandler,
	})

	app.Use(middleware.RecoverMiddleware())
	app.Use(middleware.RequestLoggerMiddleware())
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origin,
		AllowMethods: cfg.AllowMethods,
	}))

	routes.SetupRoutes(app, cfg, dbService)

	go health.DatabaseHealthMonitor(dbService)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
