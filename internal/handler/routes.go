package handler

import (
	"time"

	"studynote-ai/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the page, the health check and the /api routes.
func RegisterRoutes(app *fiber.App, notes *NotesHandler, page *PageHandler, vm *middleware.ValidationMiddleware, sessionTTL time.Duration) {
	app.Get("/healthz", page.Health)

	session := middleware.Session(sessionTTL)
	app.Get("/", session, page.Index)

	api := app.Group("/api", session)
	api.Get("/levels", notes.GetLevels)
	api.Post("/notes", vm.ValidateLevel(), notes.GenerateNotes)
	api.Get("/notes", notes.GetNotes)
	api.Get("/notes/text", notes.GetNotesText)
	api.Get("/notes/export/:format", vm.ValidateExportFormat(), notes.ExportNotes)
}
