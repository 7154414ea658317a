// Package session keeps the admin's one-shot flash messages between redirects.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"
)

const flashKey = "flash"

// Store is the global session store instance, nil until Init.
var Store *session.Store //nolint:gochecknoglobals

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage, exp time.Duration) {
	cfg := session.Config{
		Storage:        storage,
		Expiration:     exp,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}

	if exp <= 0 {
		cfg.Expiration = 24 * time.Hour //nolint:mnd
	}

	Store = session.New(cfg)
}

// Flash queues a message for the next rendered page.
func Flash(c *fiber.Ctx, msg string) {
	if Store == nil {
		return
	}

	sess, err := Store.Get(c)
	if err != nil {
		log.Warn().Err(err).Msg("can't load session for flash message")

		return
	}

	queued, _ := sess.Get(flashKey).([]string)
	sess.Set(flashKey, append(queued, msg))

	if err = sess.Save(); err != nil {
		log.Warn().Err(err).Msg("can't save flash message")
	}
}

// Flashes returns and clears the queued messages.
func Flashes(c *fiber.Ctx) []string {
	if Store == nil {
		return nil
	}

	sess, err := Store.Get(c)
	if err != nil {
		return nil
	}

	queued, _ := sess.Get(flashKey).([]string)
	if len(queued) == 0 {
		return nil
	}

	sess.Delete(flashKey)

	if err = sess.Save(); err != nil {
		log.Warn().Err(err).Msg("can't clear flash messages")
	}

	return queued
}
