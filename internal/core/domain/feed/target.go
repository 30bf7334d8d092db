package feed

// Target is one feed category to transfer from SourceURL into Destination.
type Target struct {
	Name        string
	Types       []Type
	SourceURL   string
	Destination string
}

// NewTarget creates a Target carrying the given type tags.
func NewTarget(name, sourceURL, destination string, types ...Type) Target {
	return Target{
		Name:        name,
		Types:       append([]Type(nil), types...),
		SourceURL:   sourceURL,
		Destination: destination,
	}
}

// Matches reports whether selector is one of the target's type tags.
func (t Target) Matches(selector Type) bool {
	for _, tag := range t.Types {
		if tag == selector {
			return true
		}
	}
	return false
}

// Group is a set of targets guarded by one lock file because the same
// daemon consumes their destinations.
type Group struct {
	Name     string
	LockFile string
	Targets  []Target
}

// Filter returns a copy of g containing only the targets matching selector,
// in declaration order.
func (g Group) Filter(selector Type) Group {
	filtered := Group{Name: g.Name, LockFile: g.LockFile}
	for _, t := range g.Targets {
		if t.Matches(selector) {
			filtered.Targets = append(filtered.Targets, t)
		}
	}
	return filtered
}

// Empty reports whether the group has no targets.
func (g Group) Empty() bool {
	return len(g.Targets) == 0
}
