package registry

// Changed reports whether the stored raw value of a setting differs from its
// default. Both sides are compared after validation so formatting differences
// do not count.
func (r *Registry) Changed(name, raw string) (bool, error) {
	entry, err := r.entry(name)
	if err != nil {
		return false, err
	}

	stored, err := Deserialize(raw)
	if err != nil {
		return true, nil
	}

	current, err := entry.Schema.ValidatePresent(stored)
	if err != nil {
		return true, nil
	}

	defRaw, err := Serialize(entry.Schema.Prepare(entry.Default))
	if err != nil {
		return false, err
	}

	defaults, err := Deserialize(defRaw)
	if err != nil {
		return false, err
	}

	def, _ := entry.Schema.ValidatePresent(defaults)

	got, err := Serialize(current)
	if err != nil {
		return false, err
	}

	want, err := Serialize(def)
	if err != nil {
		return false, err
	}

	return got != want, nil
}
