package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/storefront/internal/debounce"
	"github.com/abelbrown/storefront/internal/fetch"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: 1, Title: "Laptop Computer", Price: 999, Description: "High-performance laptop for work",
			Category: "electronics", Rating: model.Rating{Rate: 4.5, Count: 120}},
		{ID: 2, Title: "Wireless Mouse", Price: 25, Description: "Ergonomic wireless mouse",
			Category: "electronics", Rating: model.Rating{Rate: 4.2, Count: 80}},
		{ID: 3, Title: "Cotton T-Shirt", Price: 15, Description: "Comfortable cotton t-shirt",
			Category: "clothing", Rating: model.Rating{Rate: 3.8, Count: 50}},
		{ID: 4, Title: "Running Shoes", Price: 89, Description: "Lightweight running shoes",
			Category: "clothing", Rating: model.Rating{Rate: 4.7, Count: 200}},
	}
}

func manyProducts(n int) []model.Product {
	out := make([]model.Product, n)
	for i := range out {
		out[i] = model.Product{ID: i + 1, Title: fmt.Sprintf("Item %d", i+1), Price: float64(10 + i), Category: "misc"}
	}
	return out
}

// manualScheduler holds debounce timers until the test fires them.
type manualScheduler struct {
	timers []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) schedule(d time.Duration, f func()) debounce.Timer {
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) fire() {
	for _, t := range s.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// harness wires an App to a manual scheduler and captures sent messages.
type harness struct {
	sched   *manualScheduler
	sent    []tea.Msg
	retries int
}

func newHarness(location string) (*harness, App) {
	h := &harness{sched: &manualScheduler{}}
	app := NewAppWithConfig(AppConfig{
		LoadCatalog: func() tea.Cmd {
			return func() tea.Msg { return CatalogLoaded{Products: sampleProducts()} }
		},
		Retry: func() tea.Cmd {
			h.retries++
			return func() tea.Msg { return CatalogLoaded{Products: sampleProducts()} }
		},
		Send:      func(msg tea.Msg) { h.sent = append(h.sent, msg) },
		Location:  location,
		Scheduler: h.sched.schedule,
	})
	app.ready = true
	app.width = 120
	app.height = 40
	return h, app
}

func loaded(t *testing.T, location string, products []model.Product) (*harness, App) {
	t.Helper()
	h, app := newHarness(location)
	return h, update(app, CatalogLoaded{Products: products})
}

func update(app App, msg tea.Msg) App {
	m, _ := app.Update(msg)
	return m.(App)
}

func press(app App, keys ...string) App {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		app = update(app, msg)
	}
	return app
}

func titles(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func TestAppInit(t *testing.T) {
	_, app := newHarness("")
	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !app.loading {
		t.Error("app should start loading when a loader is configured")
	}
	if !strings.Contains(app.View(), "Loading products") {
		t.Errorf("expected loading view, got:\n%s", app.View())
	}
}

func TestAppInitNilLoader(t *testing.T) {
	app := NewAppWithConfig(AppConfig{})
	if cmd := app.Init(); cmd != nil {
		t.Error("Init should return nil without a loader")
	}
}

func TestCatalogLoadedShowsProducts(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	if len(app.Shown()) != 4 {
		t.Fatalf("shown = %d, want 4", len(app.Shown()))
	}
	view := app.View()
	if !strings.Contains(view, "Showing 4 out of 4 items") {
		t.Errorf("view should contain the result count, got:\n%s", view)
	}
	if !strings.Contains(view, "Laptop Computer") {
		t.Error("view should list products")
	}
	if !strings.Contains(view, "/products") {
		t.Error("status bar should show the location")
	}
}

func TestInitialLocationApplied(t *testing.T) {
	_, app := loaded(t, "/products?search=laptop&sort=price-asc&foo=bar", sampleProducts())

	if got := titles(app.Shown()); len(got) != 1 || got[0] != "Laptop Computer" {
		t.Errorf("shown = %v, want [Laptop Computer]", got)
	}
	if app.search.Value() != "laptop" {
		t.Errorf("search input = %q, want it synced from the location", app.search.Value())
	}
}

func TestSortCycles(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = press(app, "s")
	if app.Location() != "/products?sort=price-asc" {
		t.Errorf("location = %q", app.Location())
	}
	if got := titles(app.Shown()); got[0] != "Cotton T-Shirt" {
		t.Errorf("cheapest first, got %v", got)
	}

	app = press(app, "s", "s")
	if app.Filters().Sort != state.SortRatingDesc {
		t.Errorf("sort = %q, want rating-desc", app.Filters().Sort)
	}
	app = press(app, "s")
	if app.Location() != "/products" {
		t.Errorf("sort should cycle back to none, location = %q", app.Location())
	}
}

func TestSearchIsDebounced(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())

	app = press(app, "/", "l", "a", "p")
	if app.Location() != "/products" {
		t.Errorf("location changed before debounce settled: %q", app.Location())
	}
	if h.sched.live() != 1 {
		t.Errorf("live timers = %d, want exactly 1", h.sched.live())
	}

	h.sched.fire()
	if len(h.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(h.sent))
	}
	settled, ok := h.sent[0].(SearchSettled)
	if !ok || settled.Text != "lap" {
		t.Fatalf("sent %#v, want SearchSettled{lap}", h.sent[0])
	}

	app = update(app, settled)
	if app.Location() != "/products?search=lap" {
		t.Errorf("location = %q", app.Location())
	}
	if got := titles(app.Shown()); len(got) != 1 || got[0] != "Laptop Computer" {
		t.Errorf("shown = %v", got)
	}
}

func TestSearchEnterCommitsImmediately(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())

	app = press(app, "/", "s", "h", "o", "e", "enter")
	if app.Location() != "/products?search=shoe" {
		t.Errorf("location = %q", app.Location())
	}
	if h.sched.live() != 0 {
		t.Error("enter should flush the pending debounce")
	}
	if len(h.sent) != 0 {
		t.Errorf("flushed search should apply directly, got sent %v", h.sent)
	}
	if app.focus != focusList {
		t.Error("enter should leave the search input")
	}
}

func TestSearchEscRestores(t *testing.T) {
	h, app := loaded(t, "/products?search=mouse", sampleProducts())

	app = press(app, "/", "x", "esc")
	if app.search.Value() != "mouse" {
		t.Errorf("search input = %q, want committed text restored", app.search.Value())
	}
	if h.sched.live() != 0 {
		t.Error("esc should cancel the pending debounce")
	}
	if app.Location() != "/products?search=mouse" {
		t.Errorf("location = %q", app.Location())
	}
}

func TestTypingQDoesNotQuit(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())

	app = press(app, "/", "q")
	if app.search.Value() != "q" {
		t.Errorf("search input = %q, want q typed", app.search.Value())
	}
	if app.focus != focusSearch {
		t.Error("search input should keep focus")
	}
	if h.sched.live() != 1 {
		t.Error("typing should schedule a search, not quit")
	}
}

func TestPriceIsDebounced(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())

	// bounds are {15, 999}; two nudges collapse into one commit
	app = press(app, "]", "]")
	if app.price.Min != 35 {
		t.Errorf("displayed min = %v, want 35", app.price.Min)
	}
	if app.Location() != "/products" {
		t.Errorf("location changed before debounce settled: %q", app.Location())
	}

	h.sched.fire()
	if len(h.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(h.sent))
	}
	app = update(app, h.sent[0])

	f := app.Filters()
	if f.MinPrice != 35 || f.MaxPrice != 999 {
		t.Errorf("filters = %+v, want min 35 max 999", f)
	}
	if got := titles(app.Shown()); len(got) != 2 {
		t.Errorf("shown = %v, want products priced 35..999", got)
	}
}

func TestPriceClamped(t *testing.T) {
	_, app := loaded(t, "/products?min=0&max=5", sampleProducts())

	app = press(app, "[")
	if app.price.Min != 0 {
		t.Errorf("min = %v, should not go below 0", app.price.Min)
	}
	app = press(app, "]")
	if app.price.Min > app.price.Max {
		t.Errorf("min %v exceeds max %v", app.price.Min, app.price.Max)
	}
}

func TestRatingKeys(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = press(app, "4")
	if app.Location() != "/products?rating=4" {
		t.Errorf("location = %q", app.Location())
	}
	if len(app.Shown()) != 3 {
		t.Errorf("shown = %v, want rating >= 4", titles(app.Shown()))
	}
	app = press(app, "0")
	if app.Location() != "/products" {
		t.Errorf("rating 0 should drop the param, location = %q", app.Location())
	}
}

func TestSidebarCategoryToggle(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = press(app, "tab", "enter")
	if app.Location() != "/products?category=clothing" {
		t.Errorf("location = %q", app.Location())
	}
	if len(app.Shown()) != 2 {
		t.Errorf("shown = %v", titles(app.Shown()))
	}

	app = press(app, "enter")
	if app.Location() != "/products" {
		t.Errorf("selecting the active category should deselect it, location = %q", app.Location())
	}

	app = press(app, "down", "enter")
	if app.Filters().Category != "electronics" {
		t.Errorf("category = %q", app.Filters().Category)
	}

	app = press(app, "tab")
	if app.showSidebar || app.focus != focusList {
		t.Error("second tab should hide the sidebar")
	}
}

func TestLoadMore(t *testing.T) {
	_, app := loaded(t, "", manyProducts(20))

	if len(app.Shown()) != 9 {
		t.Fatalf("shown = %d, want 9", len(app.Shown()))
	}
	if !strings.Contains(app.View(), "Showing 9 out of 20 items") {
		t.Error("count should reflect the first page")
	}

	app = press(app, "m")
	if len(app.Shown()) != 18 || app.Location() != "/products?take=18" {
		t.Errorf("shown = %d, location = %q", len(app.Shown()), app.Location())
	}
	app = press(app, "m")
	if len(app.Shown()) != 20 {
		t.Errorf("shown = %d, want 20", len(app.Shown()))
	}
	app = press(app, "m")
	if app.Location() != "/products?take=27" {
		t.Errorf("load more without more items should not navigate, location = %q", app.Location())
	}
}

func TestFilterChangeResetsTake(t *testing.T) {
	_, app := loaded(t, "/products?take=18", manyProducts(20))

	app = press(app, "s")
	if app.Location() != "/products?sort=price-asc" {
		t.Errorf("filter change should drop take, location = %q", app.Location())
	}
}

func TestCursorSurvivesNavigation(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = press(app, "j", "j")
	app = press(app, "s")
	if app.Cursor() != 2 {
		t.Errorf("cursor = %d, navigation should not reset it", app.Cursor())
	}

	app = press(app, "/", "l", "a", "p", "t", "o", "p", "enter")
	if app.Cursor() != 0 {
		t.Errorf("cursor = %d, should be clamped to the single result", app.Cursor())
	}
}

func TestClearAll(t *testing.T) {
	h, app := loaded(t, "/products?search=shirt&category=clothing&rating=3&x=1", sampleProducts())

	app = press(app, "]")
	app = press(app, "c")
	if app.Location() != "/products" {
		t.Errorf("location = %q", app.Location())
	}
	if app.search.Value() != "" {
		t.Errorf("search input = %q, want cleared", app.search.Value())
	}
	if h.sched.live() != 0 {
		t.Error("clear should cancel pending debounces")
	}
}

func TestBack(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = press(app, "s", "4")
	app = press(app, "b")
	if app.Location() != "/products?sort=price-asc" {
		t.Errorf("location = %q", app.Location())
	}
	app = press(app, "b")
	if app.Location() != "/products" {
		t.Errorf("location = %q", app.Location())
	}
	app = press(app, "b")
	if app.Location() != "/products" {
		t.Errorf("back past the first location should be a no-op, location = %q", app.Location())
	}
}

func TestLoadErrorAndRetry(t *testing.T) {
	h, app := newHarness("")
	apiErr := &fetch.APIError{Message: "Failed to fetch: Not Found", Status: 404}
	app = update(app, CatalogLoaded{Err: apiErr})

	view := app.View()
	if !strings.Contains(view, "Could not load products") || !strings.Contains(view, "Failed to fetch: Not Found") {
		t.Errorf("error panel missing, got:\n%s", view)
	}
	if strings.Contains(view, "No products match") {
		t.Error("error panel and empty state must be distinct")
	}

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	app = m.(App)
	if cmd == nil || h.retries != 1 {
		t.Fatalf("R should run the retry command, retries = %d", h.retries)
	}
	if app.err != nil || !app.loading {
		t.Error("retry should clear the error and show loading")
	}
}

func TestRetryIgnoredWithoutError(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())
	press(app, "R")
	if h.retries != 0 {
		t.Error("R without an error should do nothing")
	}
}

func TestRefreshFailureKeepsCatalog(t *testing.T) {
	_, app := loaded(t, "", sampleProducts())

	app = update(app, CatalogLoaded{Err: errors.New("connection reset"), Refresh: true})
	if app.err != nil {
		t.Error("background refresh failure should not surface")
	}
	if len(app.Shown()) != 4 {
		t.Error("catalog should be kept")
	}

	app = update(app, CatalogLoaded{Err: errors.New("connection reset")})
	if !strings.Contains(app.View(), "Error: connection reset") {
		t.Errorf("manual reload failure should show the error bar, got:\n%s", app.View())
	}
	if len(app.Shown()) != 4 {
		t.Error("catalog should be kept")
	}
}

func TestEmptyState(t *testing.T) {
	_, app := loaded(t, "/products?search=zzz", sampleProducts())

	view := app.View()
	if !strings.Contains(view, "No products match these filters") {
		t.Errorf("empty state missing, got:\n%s", view)
	}
	if !strings.Contains(view, "Showing 0 out of 0 items") {
		t.Error("count should read zero")
	}
}

func TestEmptyCatalogState(t *testing.T) {
	_, app := loaded(t, "", nil)

	view := app.View()
	if !strings.Contains(view, "The catalog is empty.") {
		t.Errorf("empty catalog message missing, got:\n%s", view)
	}
	if strings.Contains(view, "No products match") {
		t.Error("an empty catalog is not a filter miss")
	}
}

func TestQuitDisposesDebouncers(t *testing.T) {
	h, app := loaded(t, "", sampleProducts())

	app = press(app, "]")
	if h.sched.live() != 1 {
		t.Fatalf("live timers = %d, want 1", h.sched.live())
	}

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	app = m.(App)
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if h.sched.live() != 0 {
		t.Error("quit should cancel pending timers")
	}

	app.searchDebounce.Trigger("late")
	app.priceDebounce.Trigger(model.PriceRange{})
	if h.sched.live() != 0 {
		t.Error("triggers after quit must be ignored")
	}
}

func TestSidebarListsEveryAPICategory(t *testing.T) {
	_, app := newHarness("")
	app = update(app, CatalogLoaded{
		Products:   sampleProducts(),
		Categories: []model.Category{"clothing", "electronics", "jewelery"},
	})

	var names []string
	for _, c := range app.view.Categories {
		names = append(names, fmt.Sprintf("%s=%d", c.Name, c.Count))
	}
	want := "clothing=2 electronics=2 jewelery=0"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("categories = %q, want %q", got, want)
	}
	if !strings.Contains(app.View(), "jewelery (0)") {
		t.Error("sidebar should show a listed category with no products")
	}
}

func TestStatusBarShowsFreshness(t *testing.T) {
	_, app := newHarness("")
	app = update(app, CatalogLoaded{Products: sampleProducts(), LoadedAt: time.Now().Add(-3 * time.Minute)})

	if !strings.Contains(app.View(), "updated 3 minutes ago") {
		t.Error("status bar should show when the catalog was fetched")
	}
}
