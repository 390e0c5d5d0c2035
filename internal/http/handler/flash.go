package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	flashKindKey    = "flash_kind"
	flashMessageKey = "flash_message"

	flashSuccess = "success"
	flashError   = "error"
)

// flash is a one-shot notice shown on the next rendered page.
type flash struct {
	Kind    string
	Message string
}

// setFlash stores a notice in the caller's session.
func setFlash(c *fiber.Ctx, store *session.Store, kind, message string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashKindKey, kind)
	sess.Set(flashMessageKey, message)
	return sess.Save()
}

// popFlash returns and clears the pending notice, or nil when there is none.
func popFlash(c *fiber.Ctx, store *session.Store) (*flash, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, err
	}
	msg, _ := sess.Get(flashMessageKey).(string)
	if msg == "" {
		return nil, nil
	}
	kind, _ := sess.Get(flashKindKey).(string)
	sess.Delete(flashKindKey)
	sess.Delete(flashMessageKey)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return &flash{Kind: kind, Message: msg}, nil
}
