package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"personweb/internal/service"
)

// ListPersonsAPI returns every person as JSON.
//
// @Summary  List persons
// @Tags     persons
// @Produce  json
// @Success  200 {object} service.PersonListResult
// @Failure  502 {object} errorPayload
// @Router   /api/v1/persons [get]
func ListPersonsAPI(svc service.PersonService, log logrus.FieldLogger) fiber.Handler {
	log = orStandard(log)
	return func(c *fiber.Ctx) error {
		persons, err := svc.List(c.UserContext())
		if err != nil {
			log.WithError(err).WithField("request_id", requestIDFromCtx(c)).Error("error fetching persons")
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "query api unavailable")
		}
		return c.JSON(service.PersonListResult{Items: persons, Total: len(persons)})
	}
}

// GetPersonAPI returns a single person as JSON.
//
// @Summary  Get a person
// @Tags     persons
// @Produce  json
// @Param    id  path     string true "Person ID"
// @Success  200 {object} model.Person
// @Failure  404 {object} errorPayload
// @Failure  502 {object} errorPayload
// @Router   /api/v1/persons/{id} [get]
func GetPersonAPI(svc service.PersonService, log logrus.FieldLogger) fiber.Handler {
	log = orStandard(log)
	return func(c *fiber.Ctx) error {
		id := personID(c)
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": requestIDFromCtx(c),
				"person_id":  id,
			}).Error("error fetching person")
			return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "query api unavailable")
		}
		return c.JSON(p)
	}
}
