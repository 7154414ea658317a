package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
	"github.com/GoStageSetting/GoStageSetting/internal/snapshot"
	"github.com/GoStageSetting/GoStageSetting/internal/web/middleware/auth"
	"github.com/GoStageSetting/GoStageSetting/internal/web/navigation"
	"github.com/GoStageSetting/GoStageSetting/internal/web/session"
)

func updateNav(row *models.Setting) *navigation.Context {
	title := schema.Pretty(row.Name)

	return baseNav(title, "update").AddBreadcrumb(title, UpdatePath(row.ID), true)
}

// current resolves the value of a row the way the request's snapshot sees it.
func (s *Service) current(c *fiber.Ctx, name string) (snapshot.Values, error) {
	return s.snapshot(c).Get(name)
}

// UpdateForm renders the edit form of a stored setting.
func (s *Service) UpdateForm(c *fiber.Ctx) error {
	row, err := s.row(c)
	if err != nil {
		return err
	}

	sch, err := s.reg.Schema(row.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, row.Name+" is not a registered setting")
	}

	values, err := s.current(c, row.Name)
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to resolve setting")

		return fiber.ErrInternalServerError
	}

	fields, err := buildForm(sch, values, nil)
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to build form")

		return fiber.ErrInternalServerError
	}

	return s.render(c, fiber.StatusOK, templateUpdate, updateNav(row), fiber.Map{
		"Setting": row,
		"Fields":  fields,
	})
}

// Update validates the submitted form and stores the cleaned value.
func (s *Service) Update(c *fiber.Ctx) error {
	row, err := s.row(c)
	if err != nil {
		return err
	}

	sch, err := s.reg.Schema(row.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, row.Name+" is not a registered setting")
	}

	data := parseForm(c, sch)

	cleaned, err := sch.Validate(data)
	if err != nil {
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			log.Error().Err(err).Str("setting", row.Name).Msg("failed to validate setting")

			return fiber.ErrInternalServerError
		}

		fields, ferr := buildForm(sch, data, verr.Fields)
		if ferr != nil {
			return fiber.ErrInternalServerError
		}

		return s.render(c, fiber.StatusBadRequest, templateUpdate, updateNav(row), fiber.Map{
			"Setting": row,
			"Fields":  fields,
			"Error":   "Please correct the errors below.",
		})
	}

	before, err := s.current(c, row.Name)
	if err != nil {
		before = snapshot.Values{}
	}

	changed, err := changes(before, cleaned)
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to compare setting")

		return fiber.ErrInternalServerError
	}

	raw, err := registry.Serialize(cleaned)
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to encode setting")

		return fiber.ErrInternalServerError
	}

	if _, err = setting.Update(s.db, row.ID, raw); err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to store setting")

		return fiber.ErrInternalServerError
	}

	audit(c, row.Name, changed)
	session.Flash(c, "The setting “"+schema.Pretty(row.Name)+"” was changed successfully.")

	return c.Redirect(Path)
}

// audit writes one info line per save with the changed keys and their values.
func audit(c *fiber.Ctx, name string, changed []Change) {
	keys := make([]string, 0, len(changed))
	old := make(map[string]any, len(changed))
	updated := make(map[string]any, len(changed))

	for _, ch := range changed {
		keys = append(keys, ch.Key)
		old[ch.Key] = ch.Old
		updated[ch.Key] = ch.New
	}

	user, _ := c.Locals(auth.UsernameKey).(string)

	log.Info().
		Str("setting", name).
		Str("user", user).
		Strs("changed", keys).
		Interface("old", old).
		Interface("new", updated).
		Msg("setting changed")
}
