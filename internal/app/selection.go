package app

// Selection is an ordered, duplicate-free list of recipe names chosen for the
// next shopping list. Names the catalogue does not know are ignored.
// A Selection is not safe for concurrent use.
type Selection struct {
	app   *App
	names []string
}

// NewSelection returns an empty selection over the app's catalogue.
func (a *App) NewSelection() *Selection {
	return &Selection{app: a}
}

// Select adds name to the end of the selection. It reports whether the
// selection changed.
func (s *Selection) Select(name string) bool {
	if s.Contains(name) {
		return false
	}
	if _, ok := s.app.RecipeByName(name); !ok {
		return false
	}
	s.names = append(s.names, name)
	return true
}

// Unselect removes name, keeping the order of the rest.
func (s *Selection) Unselect(name string) bool {
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle selects name if it is not selected and unselects it otherwise. It
// reports whether name is selected afterwards.
func (s *Selection) Toggle(name string) bool {
	if s.Unselect(name) {
		return false
	}
	return s.Select(name)
}

// Contains reports whether name is selected.
func (s *Selection) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns the selected names in selection order.
func (s *Selection) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of selected recipes.
func (s *Selection) Len() int {
	return len(s.names)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.names = nil
}
