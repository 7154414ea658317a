// Package api exposes the settings as JSON.
//
//	GET    /api/settings        every registered setting
//	GET    /api/settings/:name  one setting
//	PUT    /api/settings/:name  validate and store a new value
//	DELETE /api/settings/:name  reset to the default
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
	"github.com/GoStageSetting/GoStageSetting/internal/snapshot"
	"github.com/GoStageSetting/GoStageSetting/internal/web/handler"
	mw "github.com/GoStageSetting/GoStageSetting/internal/web/middleware/snapshot"
)

// Path is the base path of the API.
const Path = "/api/settings"

// ErrNilDependency is returned by Init if app, cfg, db or reg is nil.
var ErrNilDependency = errors.New(handler.ErrNilACDFatalLogMsg)

// Service is the settings API handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	reg *registry.Registry
}

var _ handler.Service = (*Service)(nil)

// Setting is the JSON representation of one setting.
type Setting struct {
	Name       string `json:"name"`
	Value      any    `json:"value"`
	HasChanged bool   `json:"has_changed"`
}

// Problem is the JSON error body.
type Problem struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Init registers the API routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, reg *registry.Registry) error {
	if app == nil || cfg == nil || db == nil || reg == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.reg = reg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/:name", s.Get)
		router.Put("/:name", s.Put)
		router.Delete("/:name", s.Delete)
	})

	return nil
}

func (s *Service) snapshot(c *fiber.Ctx) *snapshot.Snapshot {
	if snap := mw.From(c); snap != nil {
		return snap
	}

	return snapshot.New(s.reg, s.db, snapshot.WithContext(c.UserContext()))
}

func problem(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Problem{Error: msg})
}

// changed reports for each name whether its stored row differs from the default.
func (s *Service) changed(names []string) (map[string]bool, error) {
	rows, err := setting.Known(s.db, names)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(rows))

	for _, row := range rows {
		c, err := s.reg.Changed(row.Name, row.RawValue)
		if err != nil {
			continue
		}

		out[row.Name] = c
	}

	return out, nil
}

func encode(name string, values snapshot.Values, changed bool) (Setting, error) {
	v, err := registry.Normalize(map[string]any(values))
	if err != nil {
		return Setting{}, err
	}

	return Setting{Name: name, Value: v, HasChanged: changed}, nil
}

// List returns every registered setting.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := s.snapshot(c).Items()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return problem(c, fiber.StatusInternalServerError, "failed to load settings")
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	changed, err := s.changed(names)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return problem(c, fiber.StatusInternalServerError, "failed to load settings")
	}

	out := make([]Setting, 0, len(items))

	for _, item := range items {
		enc, err := encode(item.Name, item.Values, changed[item.Name])
		if err != nil {
			log.Error().Err(err).Str("setting", item.Name).Msg("failed to encode setting")

			return problem(c, fiber.StatusInternalServerError, "failed to encode settings")
		}

		out = append(out, enc)
	}

	return c.JSON(out)
}

// Get returns one setting.
func (s *Service) Get(c *fiber.Ctx) error {
	name := c.Params("name")

	values, err := s.snapshot(c).Get(name)
	if err != nil {
		if errors.Is(err, snapshot.ErrUnknownSetting) || errors.Is(err, registry.ErrInvalidName) {
			return problem(c, fiber.StatusNotFound, err.Error())
		}

		log.Error().Err(err).Str("setting", name).Msg("failed to load setting")

		return problem(c, fiber.StatusInternalServerError, "failed to load setting")
	}

	return s.respond(c, fiber.StatusOK, name, values)
}

func (s *Service) respond(c *fiber.Ctx, status int, name string, values snapshot.Values) error {
	changed, err := s.changed([]string{name})
	if err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to load setting")

		return problem(c, fiber.StatusInternalServerError, "failed to load setting")
	}

	enc, err := encode(name, values, changed[name])
	if err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to encode setting")

		return problem(c, fiber.StatusInternalServerError, "failed to encode setting")
	}

	return c.Status(status).JSON(enc)
}

// Put validates the JSON object in the body against the schema and stores it.
// Keys missing from the body are validated as empty.
func (s *Service) Put(c *fiber.Ctx) error {
	name := c.Params("name")

	sch, err := s.reg.Schema(name)
	if err != nil {
		return problem(c, fiber.StatusNotFound, err.Error())
	}

	data, err := registry.Deserialize(string(c.Body()))
	if err != nil {
		return problem(c, fiber.StatusBadRequest, "body must be a JSON object")
	}

	cleaned, err := sch.Validate(data)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(Problem{Error: "invalid value", Errors: verr.Fields})
		}

		log.Error().Err(err).Str("setting", name).Msg("failed to validate setting")

		return problem(c, fiber.StatusInternalServerError, "failed to validate setting")
	}

	raw, err := registry.Serialize(cleaned)
	if err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to encode setting")

		return problem(c, fiber.StatusInternalServerError, "failed to encode setting")
	}

	status, err := s.store(name, raw)
	if err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to store setting")

		return problem(c, fiber.StatusInternalServerError, "failed to store setting")
	}

	log.Info().Str("setting", name).Int("status", status).Msg("setting stored through api")

	return s.respond(c, status, name, cleaned)
}

// store updates the row, creating it on first write.
func (s *Service) store(name, raw string) (int, error) {
	_, err := setting.UpdateByName(s.db, name, raw)
	if errors.Is(err, setting.ErrSettingNotFound) {
		_, err = setting.Create(s.db, name, raw)

		return fiber.StatusCreated, err
	}

	return fiber.StatusOK, err
}

// Delete resets the stored value to the default.
func (s *Service) Delete(c *fiber.Ctx) error {
	name := c.Params("name")

	raw, err := s.reg.GetDefault(name)
	if err != nil {
		return problem(c, fiber.StatusNotFound, err.Error())
	}

	if _, err = s.store(name, raw); err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to reset setting")

		return problem(c, fiber.StatusInternalServerError, "failed to reset setting")
	}

	log.Info().Str("setting", name).Msg("setting reset through api")

	return c.SendStatus(fiber.StatusNoContent)
}
