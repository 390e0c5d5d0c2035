package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"

	"personweb/internal/model"
	"personweb/internal/service"
)

// User-facing notices. Remote failures are never shown in detail.
const (
	msgCreated      = "Person created successfully."
	msgUpdated      = "Person updated successfully."
	msgDeleted      = "Person deleted successfully."
	msgCreateFailed = "Could not create the person. Please try again."
	msgUpdateFailed = "Could not update the person. Please try again."
	msgDeleteFailed = "Could not delete the person. Please try again."
	msgListFailed   = "Could not load persons. Please try again later."
	msgNotFound     = "Person not found."
)

const personsURL = "/persons"

// personForm is the body of the create and edit forms.
type personForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}

func (f personForm) input() model.PersonInput {
	return model.PersonInput{Name: f.Name, Email: f.Email}
}

// PersonHandler serves the server-rendered Person pages.
type PersonHandler struct {
	svc      service.PersonService
	sessions *session.Store
	log      logrus.FieldLogger
}

// NewPersonHandler wires the Person pages to svc. Flash notices live in sessions.
func NewPersonHandler(svc service.PersonService, sessions *session.Store, log logrus.FieldLogger) *PersonHandler {
	return &PersonHandler{svc: svc, sessions: sessions, log: orStandard(log)}
}

func (h *PersonHandler) logger(c *fiber.Ctx) logrus.FieldLogger {
	return h.log.WithField("request_id", requestIDFromCtx(c))
}

// Index redirects to the list page.
func (h *PersonHandler) Index(c *fiber.Ctx) error {
	return c.Redirect(personsURL, fiber.StatusFound)
}

// List renders every person. A failing Query API renders an empty list with an error notice.
func (h *PersonHandler) List(c *fiber.Ctx) error {
	fl, err := popFlash(c, h.sessions)
	if err != nil {
		h.logger(c).WithError(err).Warn("read flash message")
	}
	if fl == nil && c.Query("error") == "not-found" {
		fl = &flash{Kind: flashError, Message: msgNotFound}
	}

	persons, err := h.svc.List(c.UserContext())
	if err != nil {
		h.logger(c).WithError(err).Error("error fetching persons")
		persons = []model.Person{}
		if fl == nil {
			fl = &flash{Kind: flashError, Message: msgListFailed}
		}
	}

	return c.Render("persons/list", fiber.Map{
		"Title":   "Persons",
		"Persons": persons,
		"Flash":   fl,
	})
}

// New renders an empty creation form.
func (h *PersonHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, model.Person{}, true, nil)
}

// Create handles the creation form.
func (h *PersonHandler) Create(c *fiber.Ctx) error {
	var form personForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	_, err := h.svc.Create(c.UserContext(), form.input())
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, model.Person{Name: form.Name, Email: form.Email}, true, verr.Fields)
	}
	if err != nil {
		h.logger(c).WithError(err).Error("error creating person")
		return h.redirectWithFlash(c, flashError, msgCreateFailed)
	}
	return h.redirectWithFlash(c, flashSuccess, msgCreated)
}

// Edit renders the form pre-filled with the stored person.
// Any lookup failure sends the user back to the list with a not-found notice.
func (h *PersonHandler) Edit(c *fiber.Ctx) error {
	id := personID(c)
	p, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger(c).WithError(err).WithField("person_id", id).Error("error fetching person")
		}
		return c.Redirect(personsURL+"?error=not-found", fiber.StatusFound)
	}
	return h.renderForm(c, fiber.StatusOK, *p, false, nil)
}

// Update handles the edit form.
func (h *PersonHandler) Update(c *fiber.Ctx) error {
	id := personID(c)
	var form personForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	_, err := h.svc.Update(c.UserContext(), id, form.input())
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, model.Person{ID: id, Name: form.Name, Email: form.Email}, false, verr.Fields)
	}
	if err != nil {
		h.logger(c).WithError(err).WithField("person_id", id).Error("error updating person")
		return h.redirectWithFlash(c, flashError, msgUpdateFailed)
	}
	return h.redirectWithFlash(c, flashSuccess, msgUpdated)
}

// Delete handles the delete button of a list row.
func (h *PersonHandler) Delete(c *fiber.Ctx) error {
	id := personID(c)
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		h.logger(c).WithError(err).WithField("person_id", id).Error("error deleting person")
		return h.redirectWithFlash(c, flashError, msgDeleteFailed)
	}
	return h.redirectWithFlash(c, flashSuccess, msgDeleted)
}

func (h *PersonHandler) renderForm(c *fiber.Ctx, status int, p model.Person, isNew bool, fieldErrors map[string]string) error {
	title := "Edit person"
	if isNew {
		title = "New person"
	}
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return c.Status(status).Render("persons/form", fiber.Map{
		"Title":  title,
		"Person": p,
		"IsNew":  isNew,
		"Errors": fieldErrors,
	})
}

// redirectWithFlash stores a notice and redirects to the list (post/redirect/get).
// A session failure is logged; the redirect still happens.
func (h *PersonHandler) redirectWithFlash(c *fiber.Ctx, kind, message string) error {
	if err := setFlash(c, h.sessions, kind, message); err != nil {
		h.logger(c).WithError(err).Warn("store flash message")
	}
	return c.Redirect(personsURL, fiber.StatusSeeOther)
}
