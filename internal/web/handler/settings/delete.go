package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
	"github.com/GoStageSetting/GoStageSetting/internal/web/navigation"
	"github.com/GoStageSetting/GoStageSetting/internal/web/session"
)

func deleteNav(row *models.Setting) *navigation.Context {
	title := schema.Pretty(row.Name)

	return baseNav(title, "delete").
		AddBreadcrumb(title, UpdatePath(row.ID), false).
		AddBreadcrumb("Reset", DeletePath(row.ID), true)
}

// DeleteForm asks for confirmation. Registered settings are reset to their
// default, rows of settings no longer registered are removed.
func (s *Service) DeleteForm(c *fiber.Ctx) error {
	row, err := s.row(c)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, templateDelete, deleteNav(row), fiber.Map{
		"Setting":    row,
		"Registered": s.reg.Has(row.Name),
	})
}

// Delete resets or removes the row.
func (s *Service) Delete(c *fiber.Ctx) error {
	row, err := s.row(c)
	if err != nil {
		return err
	}

	title := schema.Pretty(row.Name)

	if !s.reg.Has(row.Name) {
		if err = setting.Delete(s.db, row.ID); err != nil {
			log.Error().Err(err).Str("setting", row.Name).Msg("failed to delete setting")

			return fiber.ErrInternalServerError
		}

		log.Info().Str("setting", row.Name).Msg("unregistered setting deleted")
		session.Flash(c, "The setting “"+title+"” was deleted successfully.")

		return c.Redirect(Path)
	}

	raw, err := s.reg.GetDefault(row.Name)
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to encode default")

		return fiber.ErrInternalServerError
	}

	if _, err = setting.Update(s.db, row.ID, raw); err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to reset setting")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("setting", row.Name).Msg("setting reset to default")
	session.Flash(c, "The setting “"+title+"” was reset to its default.")

	return c.Redirect(Path)
}
