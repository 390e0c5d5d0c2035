package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"

	"personweb/internal/service"
)

// Deps groups everything the routes need.
type Deps struct {
	Persons  service.PersonService
	Sessions *session.Store
	Health   map[string]Pinger
	Log      logrus.FieldLogger
}

// RegisterRoutes attaches the Person pages, the JSON read API and the health probes.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Health, d.Log))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1")
	api.Get("/persons", ListPersonsAPI(d.Persons, d.Log))
	api.Get("/persons/:id", GetPersonAPI(d.Persons, d.Log))

	h := NewPersonHandler(d.Persons, d.Sessions, d.Log)
	app.Get("/", h.Index)
	app.Get("/persons", h.List)
	app.Get("/persons/new", h.New)
	app.Post("/persons", h.Create)
	app.Get("/persons/:id/edit", h.Edit)
	app.Post("/persons/:id", h.Update)
	app.Post("/persons/:id/delete", h.Delete)
}

// personID returns the decoded :id segment. Fiber hands params over still
// percent-encoded; the repositories escape the id again on the way out.
func personID(c *fiber.Ctx) string {
	raw := c.Params("id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}
