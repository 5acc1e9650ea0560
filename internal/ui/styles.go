package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Amber
)

// SelectedItem style for the currently highlighted product.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected products.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// PriceStyle for product prices.
var PriceStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// RatingStyle for star ratings.
var RatingStyle = lipgloss.NewStyle().
	Foreground(colorWarn)

// CategoryBadge style for category labels next to a product.
var CategoryBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// DetailStyle for the description line of the selected product.
var DetailStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 2)

// SectionHeader style for sidebar section titles.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1).
	Padding(0, 1)

// Sidebar style for the filter panel.
var Sidebar = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderRight(true).
	BorderForeground(colorMuted).
	PaddingRight(1)

// SidebarItem style for unselected sidebar rows.
var SidebarItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 1)

// SidebarActive style for the selected category.
var SidebarActive = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true).
	Padding(0, 1)

// SidebarCursor style for the sidebar row under the cursor.
var SidebarCursor = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("237")).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// ErrorPanel frames the load error and its retry hint.
var ErrorPanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("196")).
	Padding(1, 2)

// HelpStyle for help and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// ControlsBar style for the search and sort bar.
var ControlsBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// ControlsPrompt style for the search prompt.
var ControlsPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// ControlsCount style for "Showing X out of Y items".
var ControlsCount = lipgloss.NewStyle().
	Foreground(colorSecondary)

// LoadMoreStyle for the load-more hint under the list.
var LoadMoreStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 2)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
