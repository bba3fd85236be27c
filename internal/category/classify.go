package category

// Skip reasons reported for ineligible entries.
const (
	ReasonDirectory = "directory"
	ReasonHidden    = "hidden"
	ReasonTooRecent = "too recent"
	ReasonDisabled  = "category disabled"
)

// Entry is the subset of a directory entry the classifier needs.
type Entry struct {
	Name    string
	IsDir   bool
	Hidden  bool
	AgeDays int
}

// Rules carries the user-configured eligibility filters.
type Rules struct {
	MinAgeDays int
	Enabled    Set
}

// Decision is the classifier verdict. Category and Extension are populated
// whenever the extension was examined, even for disabled categories.
type Decision struct {
	Eligible  bool
	Category  Category
	Extension string
	Reason    string
}

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// Classify applies the eligibility rules in order: directories, hidden
// entries, and files younger than the minimum age are rejected before the
// extension is consulted.
func Classify(entry Entry, rules Rules) Decision {
	switch {
	case entry.IsDir:
		return Decision{Reason: ReasonDirectory}
	case entry.Hidden || IsHidden(entry.Name):
		return Decision{Reason: ReasonHidden}
	case entry.AgeDays < rules.MinAgeDays:
		return Decision{Reason: ReasonTooRecent}
	}

	cat, ext := Lookup(entry.Name)
	if !rules.Enabled.Has(cat) {
		return Decision{Category: cat, Extension: ext, Reason: ReasonDisabled}
	}
	return Decision{Eligible: true, Category: cat, Extension: ext}
}
