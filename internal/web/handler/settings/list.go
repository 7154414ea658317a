package settings

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Row is one line of the settings listing.
type Row struct {
	ID         uint64
	Name       string
	Title      string
	Created    time.Time
	Modified   time.Time
	HasChanged bool
	Registered bool
}

// ListData represents the data passed to the list template.
type ListData struct {
	Rows        []Row
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	SearchQuery string
	CanAdd      bool
}

// List renders the stored settings with search and pagination.
func (s *Service) List(c *fiber.Ctx) error {
	nav := baseNav("Settings", "list")

	rows, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return s.render(c, fiber.StatusInternalServerError, templateList, nav, fiber.Map{
			"Error": "Failed to load settings",
		})
	}

	perPage, allowEmpty := s.pagination(c)
	page, pageSize := paginationParams(c, perPage)
	search := strings.TrimSpace(c.Query("q"))

	filtered := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !matches(r.Name, search) {
			continue
		}

		filtered = append(filtered, s.toRow(r))
	}

	totalItems := len(filtered)
	if totalItems == 0 && !allowEmpty {
		return fiber.ErrNotFound
	}

	totalPages, page := totalPagesAndAdjust(totalItems, pageSize, page)
	start, end := pageSliceBounds(totalItems, pageSize, page)

	creatable, err := s.creatable()
	if err != nil {
		log.Warn().Err(err).Msg("can't determine creatable settings")
	}

	return s.render(c, fiber.StatusOK, templateList, nav, fiber.Map{
		"Data": ListData{
			Rows:        filtered[start:end],
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasPrevPage: page > 1,
			HasNextPage: page < totalPages,
			PrevPage:    page - 1,
			NextPage:    page + 1,
			SearchQuery: search,
			CanAdd:      len(creatable) > 0,
		},
	})
}

func (s *Service) toRow(r models.Setting) Row {
	row := Row{
		ID:       r.ID,
		Name:     r.Name,
		Title:    schema.Pretty(r.Name),
		Created:  r.CreatedAt,
		Modified: r.UpdatedAt,
	}

	changed, err := s.reg.Changed(r.Name, r.RawValue)
	if err == nil {
		row.Registered = true
		row.HasChanged = changed
	}

	return row
}

// paginationParams parses and normalizes the page and pageSize query parameters.
func paginationParams(c *fiber.Ctx, fallback int) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", fallback)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = fallback
	}

	return page, pageSize
}

// matches is a case-insensitive substring test on the setting name and its title.
func matches(name, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)

	return strings.Contains(strings.ToLower(name), q) ||
		strings.Contains(strings.ToLower(schema.Pretty(name)), q)
}

// totalPagesAndAdjust computes total pages and moves page into range.
func totalPagesAndAdjust(totalItems, pageSize, page int) (int, int) {
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	return totalPages, page
}

// pageSliceBounds calculates start and end indices for slicing a page.
func pageSliceBounds(totalItems, pageSize, page int) (int, int) {
	start := min(max((page-1)*pageSize, 0), totalItems)
	end := min(start+pageSize, totalItems)

	return start, end
}
