// Package auth guards the admin pages and the API with HTTP basic auth.
package auth

import (
	"crypto/subtle"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/rs/zerolog/log"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
)

// Realm is sent with the authentication challenge.
const Realm = "GoStageSetting"

// UsernameKey is the fiber.Ctx locals key of the authenticated admin.
const UsernameKey = "CurrentUser"

// New returns a basic auth middleware checking the configured argon2id hash.
// Without a configured username every request passes.
func New(admin config.Admin) fiber.Handler {
	if admin.Username == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return basicauth.New(basicauth.Config{
		Realm:           Realm,
		ContextUsername: UsernameKey,
		Authorizer: func(user, pass string) bool {
			return Verify(admin, user, pass)
		},
	})
}

// Verify reports whether user and pass match the admin credentials.
func Verify(admin config.Admin, user, pass string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(admin.Username)) != 1 {
		return false
	}

	ok, err := argon2id.ComparePasswordAndHash(pass, admin.PasswordHash)
	if err != nil {
		log.Error().Err(err).Msg("admin password hash can't be read")

		return false
	}

	return ok
}
