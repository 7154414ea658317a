// Package settings implements the admin pages listing, adding, editing and
// resetting stored setting values.
package settings

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/snapshot"
	"github.com/GoStageSetting/GoStageSetting/internal/web/handler"
	mw "github.com/GoStageSetting/GoStageSetting/internal/web/middleware/snapshot"
	"github.com/GoStageSetting/GoStageSetting/internal/web/navigation"
	"github.com/GoStageSetting/GoStageSetting/internal/web/session"
)

const (
	// Path is the base path of the settings admin.
	Path = "/settings"

	// Template names below the templates directory.
	templateList   = "settings/list"
	templateAdd    = "settings/add"
	templateUpdate = "settings/update"
	templateDelete = "settings/delete"

	// PaginationSetting, when registered, drives the listing's per_page and allow_empty.
	PaginationSetting = "PAGINATION"

	// SnapshotKey names the request snapshot in the template data.
	SnapshotKey = "STAGESETTING"

	// DefaultPageSize applies when the config has none.
	DefaultPageSize = 20
	maxPageSize     = 100
)

// ErrNilDependency is returned by Init if app, cfg, db or reg is nil.
var ErrNilDependency = errors.New(handler.ErrNilACDFatalLogMsg)

// Service is the settings admin handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	reg *registry.Registry
}

var _ handler.Service = (*Service)(nil)

// Init registers the admin routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, reg *registry.Registry) error {
	if app == nil || cfg == nil || db == nil || reg == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.reg = reg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/add", s.AddForm)
		router.Post("/add", s.Add)
		router.Get("/:id<int>/update", s.UpdateForm)
		router.Post("/:id<int>/update", s.Update)
		router.Get("/:id<int>/delete", s.DeleteForm)
		router.Post("/:id<int>/delete", s.Delete)
	})

	return nil
}

// UpdatePath is the edit page of a row.
func UpdatePath(id uint64) string {
	return Path + "/" + strconv.FormatUint(id, 10) + "/update"
}

// DeletePath is the reset page of a row.
func DeletePath(id uint64) string {
	return Path + "/" + strconv.FormatUint(id, 10) + "/delete"
}

func baseNav(title, page string) *navigation.Context {
	return navigation.NewContext(title, "settings", page).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Settings", Path, page == "list")
}

// render adds the navigation and pending flash messages to the view data.
func (s *Service) render(c *fiber.Ctx, status int, name string, nav *navigation.Context, data fiber.Map) error {
	data["Navigation"] = nav
	data["Messages"] = session.Flashes(c)
	data[SnapshotKey] = s.snapshot(c)

	if s.cfg != nil {
		data["Title"] = s.cfg.Title
	}

	return c.Status(status).Render(name, data, handler.BaseLayout)
}

// row loads the setting addressed by the :id route parameter.
func (s *Service) row(c *fiber.Ctx) (*models.Setting, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.ErrNotFound
	}

	row, err := setting.GetByID(s.db, id)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil, fiber.ErrNotFound
	}

	return row, err
}

// snapshot returns the request's snapshot, or a fresh one without the middleware.
func (s *Service) snapshot(c *fiber.Ctx) *snapshot.Snapshot {
	if snap := mw.From(c); snap != nil {
		return snap
	}

	snap := snapshot.New(s.reg, s.db, snapshot.WithContext(c.UserContext()))
	c.Locals(mw.LocalsKey, snap)

	return snap
}

// pagination returns the page size and whether an empty listing is shown.
// A registered PAGINATION setting wins over [Webserver].PageSize.
func (s *Service) pagination(c *fiber.Ctx) (int, bool) {
	perPage, allowEmpty := s.pageSize(), true

	if !s.reg.Has(PaginationSetting) {
		return perPage, allowEmpty
	}

	v, err := s.snapshot(c).Get(PaginationSetting)
	if err != nil {
		log.Warn().Err(err).Msg("can't read the pagination setting")

		return perPage, allowEmpty
	}

	if n := v.Int("per_page"); n > 0 && n <= maxPageSize {
		perPage = int(n)
	}

	if b, ok := v["allow_empty"].(bool); ok {
		allowEmpty = b
	}

	return perPage, allowEmpty
}

func (s *Service) pageSize() int {
	if s.cfg == nil || s.cfg.Webserver.PageSize < 1 {
		return DefaultPageSize
	}

	return s.cfg.Webserver.PageSize
}
