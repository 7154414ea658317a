// Package snapshot attaches a fresh settings snapshot to every request.
package snapshot

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/snapshot"
)

// LocalsKey is the fiber.Ctx locals key holding the request's *snapshot.Snapshot.
const LocalsKey = "stagesetting"

// New returns a middleware that stores a lazily loaded snapshot under LocalsKey.
// Storage is only read when a handler asks for a setting.
func New(reg *registry.Registry, db *gorm.DB, opts ...snapshot.Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if existing := c.Locals(LocalsKey); existing != nil {
			log.Warn().
				Str("path", c.Path()).
				Msgf("request already has %s set, replacing it", LocalsKey)
		}

		reqOpts := append([]snapshot.Option{snapshot.WithContext(c.UserContext())}, opts...)
		c.Locals(LocalsKey, snapshot.New(reg, db, reqOpts...))

		return c.Next()
	}
}

// From returns the request's snapshot, or nil when the middleware did not run.
func From(c *fiber.Ctx) *snapshot.Snapshot {
	s, _ := c.Locals(LocalsKey).(*snapshot.Snapshot)

	return s
}

// State reports "evaluated", "unevaluated" or "" for the access log.
func State(c *fiber.Ctx) string {
	s := From(c)

	switch {
	case s == nil:
		return ""
	case s.Loaded():
		return "evaluated"
	default:
		return "unevaluated"
	}
}
