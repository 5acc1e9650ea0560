package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/abelbrown/storefront/internal/debounce"
	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/otel"
	"github.com/abelbrown/storefront/internal/state"
)

// Debounce windows for the search input and the price controls.
const (
	DefaultSearchDelay = 300 * time.Millisecond
	DefaultPriceDelay  = 1000 * time.Millisecond
)

// priceStep is how far one key press moves a price bound.
const priceStep = 10

// ObsConfig holds observability dependencies for the App.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig holds the dependencies for creating an App.
type AppConfig struct {
	// LoadCatalog returns a Cmd that loads products and categories and
	// answers with CatalogLoaded.
	LoadCatalog func() tea.Cmd
	// Retry returns a Cmd that drops cached data and loads again.
	Retry func() tea.Cmd
	// Send delivers messages produced outside Update, such as settled
	// debounces. Pass (*tea.Program).Send.
	Send func(tea.Msg)

	// Location is the initial browser location; empty means /products.
	Location string

	SearchDelay time.Duration
	PriceDelay  time.Duration
	// Scheduler overrides the debounce timers (tests).
	Scheduler debounce.Scheduler

	// ShowDebug opens the debug overlay on start.
	ShowDebug bool

	Obs ObsConfig
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusSidebar
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT fetch. It receives the catalog via messages, and
// every filter it displays is decoded from the current location.
type App struct {
	loadCatalog func() tea.Cmd
	retry       func() tea.Cmd

	keys KeyMap
	help help.Model

	history *state.History
	store   *state.Store

	products   []model.Product
	categories []model.Category
	view       filter.View
	loadedAt   time.Time

	search         textinput.Model
	searchDebounce *debounce.Debouncer[string]
	price          model.PriceRange // what the price controls display
	priceDebounce  *debounce.Debouncer[model.PriceRange]

	spinner     spinner.Model
	focus       focus
	showSidebar bool
	cursor      int
	catCursor   int
	err         error
	width       int
	height      int
	ready       bool
	loading     bool
	loaded      bool

	logger       *otel.Logger
	ring         *otel.RingBuffer
	debugVisible bool
}

// NewAppWithConfig creates a new App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	send := cfg.Send
	if send == nil {
		send = func(tea.Msg) {}
	}
	logger := cfg.Obs.Logger
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	searchDelay := cfg.SearchDelay
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDelay
	}
	priceDelay := cfg.PriceDelay
	if priceDelay <= 0 {
		priceDelay = DefaultPriceDelay
	}
	var opts []debounce.Option
	if cfg.Scheduler != nil {
		opts = append(opts, debounce.WithScheduler(cfg.Scheduler))
	}

	location := cfg.Location
	if location == "" {
		location = state.ListingPath
	}
	history := state.NewHistory(location)

	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 30

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	a := App{
		loadCatalog:  cfg.LoadCatalog,
		retry:        cfg.Retry,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		history:      history,
		store:        state.NewStore(history),
		search:       ti,
		spinner:      s,
		showSidebar:  true,
		logger:       logger,
		ring:         cfg.Obs.Ring,
		debugVisible: cfg.ShowDebug,
		loading:      cfg.LoadCatalog != nil,
		searchDebounce: debounce.New(searchDelay, func(text string) {
			send(SearchSettled{Text: text})
		}, opts...),
		priceDebounce: debounce.New(priceDelay, func(p model.PriceRange) {
			send(PriceSettled{Min: p.Min, Max: p.Max})
		}, opts...),
	}
	a.derive()
	a.syncControls()
	return a
}

// Init starts the catalog load.
func (a App) Init() tea.Cmd {
	if a.loadCatalog == nil {
		return nil
	}
	return tea.Batch(a.loadCatalog(), a.spinner.Tick)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case CatalogLoaded:
		a.loading = false
		if msg.Err != nil {
			// A failed background refresh keeps the catalog already shown.
			if msg.Refresh && a.loaded {
				a.logger.Emit(otel.Event{Kind: otel.KindFetchError, Level: otel.LevelWarn, Comp: "ui", Err: msg.Err.Error(), Msg: "background refresh failed"})
				return a, nil
			}
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.loaded = true
		a.products = msg.Products
		a.categories = msg.Categories
		a.loadedAt = msg.LoadedAt
		a.derive()
		a.syncControls()
		return a, nil

	case SearchSettled:
		if msg.Text != a.view.Filters.Search {
			a.navigate(state.WithSearch(msg.Text))
		}
		return a, nil

	case PriceSettled:
		f := a.view.Filters
		if msg.Min != f.MinPrice || msg.Max != f.MaxPrice {
			a.navigate(state.WithPriceRange(msg.Min, msg.Max))
		}
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.logger.Emit(otel.Event{Kind: otel.KindKeyPress, Level: otel.LevelDebug, Comp: "ui", Key: msg.String()})

	if msg.Type == tea.KeyCtrlC {
		a.dispose()
		return a, tea.Quit
	}

	if a.focus == focusSearch {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.dispose()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil

	case key.Matches(msg, a.keys.Retry):
		if a.err == nil || a.retry == nil {
			return a, nil
		}
		a.err = nil
		a.loading = true
		return a, tea.Batch(a.retry(), a.spinner.Tick)

	case key.Matches(msg, a.keys.Refresh):
		if a.retry == nil || a.loading {
			return a, nil
		}
		a.loading = true
		return a, tea.Batch(a.retry(), a.spinner.Tick)

	case key.Matches(msg, a.keys.Search):
		a.focus = focusSearch
		return a, a.search.Focus()

	case key.Matches(msg, a.keys.Sidebar):
		if a.focus == focusSidebar {
			a.focus = focusList
			a.showSidebar = false
		} else {
			a.focus = focusSidebar
			a.showSidebar = true
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.focus == focusSidebar {
			if a.catCursor > 0 {
				a.catCursor--
			}
		} else if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.focus == focusSidebar {
			if a.catCursor < len(a.view.Categories)-1 {
				a.catCursor++
			}
		} else if a.cursor < len(a.view.Shown)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		if len(a.view.Shown) > 0 {
			a.cursor = len(a.view.Shown) - 1
		}
		return a, nil

	case key.Matches(msg, a.keys.Toggle):
		if a.focus == focusSidebar && a.catCursor < len(a.view.Categories) {
			a.store.ToggleCategory(a.view.Categories[a.catCursor].Name)
			a.afterNavigate()
		}
		return a, nil

	case key.Matches(msg, a.keys.Sort):
		a.navigate(state.WithSort(a.view.Filters.Sort.Next()))
		return a, nil

	case key.Matches(msg, a.keys.Rating):
		a.navigate(state.WithMinRating(float64(msg.Runes[0] - '0')))
		return a, nil

	case key.Matches(msg, a.keys.MinDown):
		a.nudgePrice(-priceStep, 0)
		return a, nil

	case key.Matches(msg, a.keys.MinUp):
		a.nudgePrice(priceStep, 0)
		return a, nil

	case key.Matches(msg, a.keys.MaxDown):
		a.nudgePrice(0, -priceStep)
		return a, nil

	case key.Matches(msg, a.keys.MaxUp):
		a.nudgePrice(0, priceStep)
		return a, nil

	case key.Matches(msg, a.keys.LoadMore):
		if a.view.HasMore {
			a.store.LoadMore()
			a.afterNavigate()
		}
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		a.searchDebounce.Cancel()
		a.priceDebounce.Cancel()
		a.store.Clear()
		a.afterNavigate()
		a.syncControls()
		return a, nil

	case key.Matches(msg, a.keys.Back):
		if a.history.Back() {
			a.searchDebounce.Cancel()
			a.priceDebounce.Cancel()
			a.afterNavigate()
			a.syncControls()
		}
		return a, nil
	}

	return a, nil
}

// handleSearchKey routes keys to the search input while it has focus.
// Typing restarts the search debounce; enter commits at once; esc abandons
// the edit and restores the committed text.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.AcceptInput):
		text := a.search.Value()
		if pending, ok := a.searchDebounce.Flush(); ok {
			text = pending
		}
		a.search.Blur()
		a.focus = focusList
		if text != a.view.Filters.Search {
			a.navigate(state.WithSearch(text))
		}
		return a, nil

	case key.Matches(msg, a.keys.CancelInput):
		a.searchDebounce.Cancel()
		a.search.Blur()
		a.search.SetValue(a.view.Filters.Search)
		a.focus = focusList
		return a, nil
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != before {
		a.searchDebounce.Trigger(a.search.Value())
	}
	return a, cmd
}

// nudgePrice moves the displayed price bounds and restarts the price debounce.
// The location only changes once the controls settle.
func (a *App) nudgePrice(dMin, dMax float64) {
	upper := state.DefaultMaxPrice
	if a.view.Bounds.Max > upper {
		upper = a.view.Bounds.Max
	}
	p := a.price
	p.Min = clamp(p.Min+dMin, 0, p.Max)
	p.Max = clamp(p.Max+dMax, p.Min, upper)
	if p == a.price {
		return
	}
	a.price = p
	a.priceDebounce.Trigger(p)
}

// navigate applies a filter patch to the location and re-derives the view.
func (a *App) navigate(p state.Patch) {
	a.store.Update(p)
	a.afterNavigate()
}

// afterNavigate re-derives the view from the current location.
// The list cursor is clamped, never reset.
func (a *App) afterNavigate() {
	a.logger.Emit(otel.Event{Kind: otel.KindNavigate, Level: otel.LevelInfo, Comp: "ui", Location: a.store.Location()})
	a.derive()
	if !a.priceDebounce.Pending() {
		a.price = priceControls(a.view)
	}
}

// derive recomputes the view for the current location and catalog.
func (a *App) derive() {
	a.view = filter.Derive(a.products, a.store.Filters(), a.store.Take())
	a.view.Categories = withLabels(a.view.Categories, a.categories)
	a.logger.Emit(otel.Event{Kind: otel.KindFilterApply, Level: otel.LevelDebug, Comp: "ui", Count: len(a.view.Matched), Location: a.store.Location()})

	if a.cursor >= len(a.view.Shown) {
		a.cursor = max(len(a.view.Shown)-1, 0)
	}
	if a.catCursor >= len(a.view.Categories) {
		a.catCursor = max(len(a.view.Categories)-1, 0)
	}
}

// syncControls resets the input controls to the values in the location.
func (a *App) syncControls() {
	a.search.SetValue(a.view.Filters.Search)
	a.price = priceControls(a.view)
}

func priceControls(v filter.View) model.PriceRange {
	lo, hi := v.PriceControls()
	return model.PriceRange{Min: lo, Max: hi}
}

// dispose stops both debouncers so no timer fires after quit.
func (a *App) dispose() {
	a.searchDebounce.Stop()
	a.priceDebounce.Stop()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		return lipgloss.JoinVertical(lipgloss.Left,
			debugOverlay(a.ring, a.width, a.height-1),
			debugStatusBar(a.width),
		)
	}

	controls := a.renderControls()
	statusBar := a.renderStatusBar()

	errorBar := ""
	if a.err != nil && a.loaded {
		errorBar = ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (R to retry)") + "\n"
	}

	// Controls bar and status bar take one line each
	contentHeight := a.height - 2
	if errorBar != "" {
		contentHeight--
	}

	bodyWidth := a.width
	if a.showSidebar {
		bodyWidth -= sidebarWidth + 2
	}
	body := a.renderBody(bodyWidth, contentHeight)

	if a.showSidebar {
		sidebar := RenderSidebar(a.view, a.price, a.catCursor, a.focus == focusSidebar, contentHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}

	return controls + "\n" + body + "\n" + errorBar + statusBar
}

// renderBody picks the loading, error, empty or list rendering.
func (a App) renderBody(width, height int) string {
	switch {
	case a.loading && !a.loaded:
		return HelpStyle.Render(fmt.Sprintf("%s Loading products...", a.spinner.View()))

	case a.err != nil && !a.loaded:
		return ErrorPanel.Render(
			ErrorStyle.Render("Could not load products") + "\n\n" +
				a.err.Error() + "\n\n" +
				StatusBarText.Render("Press ") + StatusBarKey.Render("R") + StatusBarText.Render(" to retry"),
		)

	case len(a.view.Matched) == 0:
		if a.view.Filters.IsDefault() {
			return HelpStyle.Render("The catalog is empty.")
		}
		msg := "No products match these filters."
		if a.view.Filters.Active() > 0 {
			msg += " Press c to clear all filters."
		}
		return HelpStyle.Render(msg)
	}

	return RenderProducts(a.view, a.cursor, width, height)
}

// renderControls renders the search input, the sort mode and the result count.
func (a App) renderControls() string {
	count := ControlsCount.Render(fmt.Sprintf("Showing %d out of %d items", len(a.view.Shown), len(a.view.Matched)))
	sortLabel := StatusBarText.Render("sort: ") + ControlsPrompt.Render(a.view.Filters.Sort.Label())
	refreshing := ""
	if a.loading && a.loaded {
		refreshing = " " + a.spinner.View()
	}
	return ControlsBar.Width(a.width).Render(a.search.View() + "  " + sortLabel + "  " + count + refreshing)
}

// renderStatusBar renders the current location and key hints.
func (a App) renderStatusBar() string {
	loc := StatusBarKey.Render(truncateRunes(a.store.Location(), max(a.width/2, 20)))
	if a.loaded && !a.loadedAt.IsZero() {
		loc += "  " + StatusBarText.Render("updated "+humanize.Time(a.loadedAt))
	}
	hints := a.help.ShortHelpView(a.keys.ShortHelp())
	return StatusBar.Width(a.width).Render(loc + "  " + hints)
}

// Location returns the current browser location.
func (a App) Location() string {
	return a.store.Location()
}

// Filters returns the filters decoded from the current location.
func (a App) Filters() state.Filters {
	return a.view.Filters
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Shown returns the products currently displayed (for testing).
func (a App) Shown() []model.Product {
	return a.view.Shown
}
