package schema

// PaginationRef is the catalog reference of the pagination preset.
const PaginationRef = "presets.Pagination"

// Pagination is a reusable schema for paginated listings.
func Pagination() *Schema {
	return MustNew("Pagination",
		NewField("per_page", Integer, WithMin(1), WithHelp("Number of items per page.")),
		NewField("allow_empty", Boolean, WithHelp("Show an empty page instead of an error.")),
	)
}

// Presets returns a catalog holding the built-in schemas.
func Presets() Catalog {
	return Catalog{
		PaginationRef: Pagination(),
	}
}

// Merge returns a catalog holding the entries of c and others. Later entries win.
func (c Catalog) Merge(others ...Catalog) Catalog {
	out := make(Catalog, len(c))
	for ref, s := range c {
		out[ref] = s
	}

	for _, other := range others {
		for ref, s := range other {
			out[ref] = s
		}
	}

	return out
}
