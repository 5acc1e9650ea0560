package state

import (
	"net/url"
	"strconv"
)

// Router owns the current location and performs navigation. Navigation is
// client-side: it replaces the location without reloading the catalog and
// without touching scroll position.
type Router interface {
	Location() string
	Navigate(location string)
}

// Store reads and writes filter state through a Router. It keeps no state
// of its own, so nothing it reports can diverge from the location.
type Store struct {
	router Router
}

// NewStore creates a Store over the given router.
func NewStore(r Router) *Store {
	return &Store{router: r}
}

// Location returns the current location.
func (s *Store) Location() string {
	return s.router.Location()
}

// Filters decodes the filter state from the current location.
func (s *Store) Filters() Filters {
	f, _ := Decode(s.query())
	return f
}

// Take decodes the page-size cursor from the current location.
func (s *Store) Take() int {
	_, take := Decode(s.query())
	return take
}

// Update merges p over the current filters and navigates to the result.
// Default-valued fields are dropped from the query and take is removed, so
// any filter change restarts pagination at the first page. Parameters the
// store does not own are preserved.
func (s *Store) Update(p Patch) {
	path, q := ParseLocation(s.router.Location())
	current, _ := Decode(q)
	next := Encode(p.Apply(current))

	for _, k := range filterParams {
		if val, ok := next[k]; ok {
			q[k] = val
		} else {
			q.Del(k)
		}
	}
	q.Del(ParamTake)

	s.router.Navigate(FormatLocation(path, q))
}

// UpdateTake sets only the take parameter; filters are left untouched.
func (s *Store) UpdateTake(take int) {
	if take <= 0 {
		take = PageSize
	}
	path, q := ParseLocation(s.router.Location())
	q.Set(ParamTake, strconv.Itoa(take))
	s.router.Navigate(FormatLocation(path, q))
}

// LoadMore grows take by one page.
func (s *Store) LoadMore() {
	s.UpdateTake(s.Take() + PageSize)
}

// Clear navigates to the bare listing, dropping every parameter at once.
func (s *Store) Clear() {
	s.router.Navigate(ListingPath)
}

// ToggleCategory selects category c, or deselects it when it is already the
// selected one.
func (s *Store) ToggleCategory(c string) {
	if s.Filters().Category == c {
		c = DefaultCategory
	}
	s.Update(WithCategory(c))
}

func (s *Store) query() url.Values {
	_, q := ParseLocation(s.router.Location())
	return q
}
