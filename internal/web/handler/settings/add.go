package settings

import (
	"errors"
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
	"github.com/GoStageSetting/GoStageSetting/internal/web/navigation"
	"github.com/GoStageSetting/GoStageSetting/internal/web/session"
)

// creatable lists the registered names without a stored row.
func (s *Service) creatable() ([]string, error) {
	names := s.reg.Names()

	existing, err := setting.Names(s.db, names)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		if !slices.Contains(existing, name) {
			out = append(out, name)
		}
	}

	return out, nil
}

func creatableChoices(names []string) schema.Choices {
	choices := make(schema.Choices, 0, len(names))
	for _, name := range names {
		choices = append(choices, schema.Choice{Value: name, Label: schema.Pretty(name)})
	}

	return choices
}

func addNav() *navigation.Context {
	return baseNav("Add setting", "add").AddBreadcrumb("Add", Path+"/add", true)
}

// AddForm offers the registered settings that have no stored value yet.
func (s *Service) AddForm(c *fiber.Ctx) error {
	names, err := s.creatable()
	if err != nil {
		log.Error().Err(err).Msg("failed to list creatable settings")

		return fiber.ErrInternalServerError
	}

	return s.render(c, fiber.StatusOK, templateAdd, addNav(), fiber.Map{
		"Choices": creatableChoices(names),
	})
}

// Add stores the default value of the chosen setting and opens its edit page.
func (s *Service) Add(c *fiber.Ctx) error {
	names, err := s.creatable()
	if err != nil {
		log.Error().Err(err).Msg("failed to list creatable settings")

		return fiber.ErrInternalServerError
	}

	name := c.FormValue("name")
	if !slices.Contains(names, name) {
		return s.render(c, fiber.StatusBadRequest, templateAdd, addNav(), fiber.Map{
			"Choices": creatableChoices(names),
			"Errors":  map[string][]string{"name": {"Select a valid choice. " + name + " is not one of the available choices."}},
		})
	}

	raw, err := s.reg.GetDefault(name)
	if err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to encode default")

		return fiber.ErrInternalServerError
	}

	row, err := setting.Create(s.db, name, raw)
	if err != nil {
		if errors.Is(err, setting.ErrSettingAlreadyExists) {
			return fiber.ErrConflict
		}

		log.Error().Err(err).Str("setting", name).Msg("failed to create setting")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("setting", name).Uint64("id", row.ID).Msg("setting added")
	session.Flash(c, "The setting “"+schema.Pretty(name)+"” was added successfully. You may edit it below.")

	return c.Redirect(UpdatePath(row.ID))
}
