package routes

import (
	"time"

	"event-lists-go/config"
	"event-lists-go/handlers"
	"event-lists-go/middleware"
	"event-lists-go/redis"
	"event-lists-go/services"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, cfg *config.Config, dbService *services.DatabaseService) {
	db := dbService.DB

	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthChecker{
		"database": dbService.CheckHealth,
		"redis":    redis.CheckHealth,
	})
	authHandler := handlers.NewAuthHandler(db)

	configService := services.NewListConfigService(services.NewGormListConfigStore(db))
	spreadsheetService := services.NewSpreadsheetService()
	exportService := services.NewExportService(cfg, services.CourierPDFExporter{})
	contributionListService := services.NewContributionListService(db, configService, cfg.ServerHost)
	registrationListService := services.NewRegistrationListService(db, configService, cfg.ServerHost)
	pendingIdentityService := services.NewPendingIdentityService(redis.GetClient(), cfg)

	contributionHandler := handlers.NewContributionListHandler(
		contributionListService, configService, spreadsheetService, exportService)
	registrationHandler := handlers.NewRegistrationListHandler(
		registrationListService, configService, spreadsheetService, exportService, pendingIdentityService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/v1")
	api.Get("/health", healthHandler.HealthCheck)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JwtAuthMiddleware(db))
	exportLimited := middleware.ExportRateLimit(30, time.Minute, 5*time.Minute)

	contributions := authed.Group("/events/:eventId/contributions")
	contributions.Get("/", contributionHandler.GetList)
	contributions.Post("/config", contributionHandler.StoreConfig)
	contributions.Post("/static-url", contributionHandler.StaticURL)
	contributions.Get("/export/:format", exportLimited, contributionHandler.Export)
	contributions.Post("/export/pdf", exportLimited, contributionHandler.ExportPDF)

	registrations := authed.Group("/events/:eventId/regforms/:regformId")
	registrations.Get("/registrations", registrationHandler.GetList)
	registrations.Post("/registrations/config", registrationHandler.StoreConfig)
	registrations.Post("/registrations/static-url", registrationHandler.StaticURL)
	// the static attachments path must register before the :format route
	registrations.Get("/registrations/export/attachments", exportLimited, registrationHandler.ExportAttachments)
	registrations.Get("/registrations/export/:format", exportLimited, registrationHandler.Export)
	registrations.Post("/registrations/export/pdf", exportLimited, registrationHandler.ExportPDF)
	registrations.Get("/registrations/prefill/:identityId", registrationHandler.GetPrefill)
	registrations.Put("/registrations/prefill/:identityId", registrationHandler.StorePrefill)
	registrations.Get("/schema", registrationHandler.GetSchema)
}
