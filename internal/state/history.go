package state

// History is an in-memory Router that records every navigation so the
// previous location can be restored. It is not safe for concurrent use; the
// UI drives it from its single update loop.
type History struct {
	entries []string
	limit   int
}

// DefaultHistoryLimit bounds how many locations History remembers.
const DefaultHistoryLimit = 100

// NewHistory creates a History positioned at the given location.
func NewHistory(location string) *History {
	if location == "" {
		location = ListingPath
	}
	return &History{entries: []string{location}, limit: DefaultHistoryLimit}
}

// Location returns the current location.
func (h *History) Location() string {
	return h.entries[len(h.entries)-1]
}

// Navigate pushes a new location. Navigating to the current location is a no-op.
func (h *History) Navigate(location string) {
	if location == h.Location() {
		return
	}
	h.entries = append(h.entries, location)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Back restores the previous location. It reports false when there is none.
func (h *History) Back() bool {
	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Len returns the number of remembered locations.
func (h *History) Len() int {
	return len(h.entries)
}

// Fixed is a Router that stays at one location and records the last
// navigation target. It serves stateless callers such as HTTP handlers.
type Fixed struct {
	Current string
	Target  string
}

func (f *Fixed) Location() string { return f.Current }

func (f *Fixed) Navigate(location string) { f.Target = location }
