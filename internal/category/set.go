package category

// Set is a collection of enabled categories. A nil Set enables everything.
type Set map[Category]struct{}

// NewSet builds a Set from the given categories.
func NewSet(cats ...Category) Set {
	set := make(Set, len(cats))
	for _, cat := range cats {
		set[cat] = struct{}{}
	}
	return set
}

// Has reports whether cat is enabled.
func (s Set) Has(cat Category) bool {
	if s == nil {
		return true
	}
	_, ok := s[cat]
	return ok
}

// Sorted returns the members in canonical order.
func (s Set) Sorted() []Category {
	out := make([]Category, 0, len(ordered))
	for _, cat := range ordered {
		if s.Has(cat) {
			out = append(out, cat)
		}
	}
	return out
}
