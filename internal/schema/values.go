package schema

// Deferred is an example value computed when the schema is built or the value encoded.
type Deferred func() any

// Resolve invokes deferred values until a concrete one remains.
func Resolve(v any) any {
	for {
		switch fn := v.(type) {
		case Deferred:
			v = fn()
		case func() any:
			v = fn()
		default:
			return v
		}
	}
}

// Choice is one selectable option. Group is used to render option groups.
type Choice struct {
	Value string
	Label string
	Group string
}

// Choices is an ordered set of options. Used as an example value it becomes a
// single choice field whose initial value is the first option.
type Choices []Choice

// Has reports whether value is one of the options.
func (c Choices) Has(value string) bool {
	for _, choice := range c {
		if choice.Value == value {
			return true
		}
	}

	return false
}

// Values returns the option values in order.
func (c Choices) Values() []string {
	out := make([]string, 0, len(c))
	for _, choice := range c {
		out = append(out, choice.Value)
	}

	return out
}

// Grouped splits the options into consecutive groups, keeping the option order.
func (c Choices) Grouped() []ChoiceGroup {
	var groups []ChoiceGroup

	for _, choice := range c {
		if n := len(groups); n > 0 && groups[n-1].Name == choice.Group {
			groups[n-1].Choices = append(groups[n-1].Choices, choice)
			continue
		}

		groups = append(groups, ChoiceGroup{Name: choice.Group, Choices: Choices{choice}})
	}

	return groups
}

// ChoiceGroup is a named run of options.
type ChoiceGroup struct {
	Name    string
	Choices Choices
}

// Entity is a persisted record that a setting can point at.
type Entity interface {
	EntityID() string
}

// Collection enumerates the entities of one kind.
type Collection interface {
	Name() string
	All() ([]Entity, error)
	Find(ids ...string) ([]Entity, error)
}

// EntityRef points at one entity of a collection. An empty ID means nothing is
// selected initially.
type EntityRef struct {
	Collection Collection
	ID         string
}

// EntityID implements Entity.
func (r EntityRef) EntityID() string {
	return r.ID
}

// EntitySet selects entities of a collection. A nil IDs selects the whole collection.
type EntitySet struct {
	Collection Collection
	IDs        []string
}

// Identities lists the selected entity ids.
func (s EntitySet) Identities() ([]string, error) {
	if s.IDs != nil {
		return s.IDs, nil
	}

	if s.Collection == nil {
		return []string{}, nil
	}

	all, err := s.Collection.All()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, e := range all {
		ids = append(ids, e.EntityID())
	}

	return ids, nil
}
