package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-lead-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Buyers       *handlers.BuyersHandler
	ImportExport *handlers.ImportExportHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	buyers := api.Group("/buyers")
	buyers.Post("/", cfg.Buyers.CreateBuyer)
	buyers.Get("/", cfg.Buyers.ListBuyers)
	buyers.Post("/import", cfg.ImportExport.ImportBuyers)
	buyers.Get("/export", cfg.ImportExport.ExportBuyers)
	buyers.Get("/:id", cfg.Buyers.GetBuyer)
	buyers.Put("/:id", cfg.Buyers.UpdateBuyer)
	buyers.Get("/:id/history", cfg.Buyers.GetBuyerHistory)
}
