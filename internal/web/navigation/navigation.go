// Package navigation carries the page title, the highlighted menu entry and the
// breadcrumb trail of an admin page.
package navigation

// Crumb is one link of the breadcrumb trail.
type Crumb struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state handed to the base layout.
type Context struct {
	PageTitle     string
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []Crumb
}

// NewContext creates a navigation context without breadcrumbs.
func NewContext(pageTitle, section, page string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: section,
		ActivePage:    page,
		Breadcrumbs:   []Crumb{},
	}
}

// AddBreadcrumb appends a crumb. An active crumb deactivates the previous ones.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	if active {
		for i := range c.Breadcrumbs {
			c.Breadcrumbs[i].Active = false
		}
	}

	c.Breadcrumbs = append(c.Breadcrumbs, Crumb{Title: title, URL: url, Active: active})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// DocumentTitle is the <title> of the page: "Page | Site", or just one of them.
func (c *Context) DocumentTitle(site string) string {
	switch {
	case c.PageTitle == "":
		return site
	case site == "":
		return c.PageTitle
	default:
		return c.PageTitle + " | " + site
	}
}
