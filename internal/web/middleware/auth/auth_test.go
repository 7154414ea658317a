package auth_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/web/middleware/auth"
)

func TestNew(t *testing.T) {
	hash, err := argon2id.CreateHash("secret", argon2id.DefaultParams)
	require.NoError(t, err)

	admin := config.Admin{Username: "admin", PasswordHash: hash}

	tests := []struct {
		name   string
		admin  config.Admin
		user   string
		pass   string
		status int
	}{
		{name: "unprotected", status: fiber.StatusOK},
		{name: "no credentials", admin: admin, status: fiber.StatusUnauthorized},
		{name: "wrong password", admin: admin, user: "admin", pass: "nope", status: fiber.StatusUnauthorized},
		{name: "wrong user", admin: admin, user: "root", pass: "secret", status: fiber.StatusUnauthorized},
		{name: "valid", admin: admin, user: "admin", pass: "secret", status: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(auth.New(tt.admin))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != "" {
				req.Header.Set(fiber.HeaderAuthorization,
					"Basic "+base64.StdEncoding.EncodeToString([]byte(tt.user+":"+tt.pass)))
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestVerifyBrokenHash(t *testing.T) {
	assert.False(t, auth.Verify(config.Admin{Username: "admin", PasswordHash: "plain"}, "admin", "plain"))
}
