// Package machineui provides the Bubble Tea editor for machine-config items.
package machineui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/schemaerr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	modalStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// ErrReadOnly is reported when editing a frozen or action item.
var ErrReadOnly = errors.New("item is read-only")

// Model implements the Bubble Tea machine-config editor.
type Model struct {
	title    string
	original []configitem.Item
	items    []configitem.Item

	table   table.Model
	input   textinput.Model
	editing bool
	errMsg  string

	accepted bool
	done     bool

	width  int
	height int
}

// NewModel returns an editor over a copy of items.
func NewModel(title string, items []configitem.Item) *Model {
	m := &Model{
		title:    title,
		original: append([]configitem.Item(nil), items...),
		items:    append([]configitem.Item(nil), items...),
		input:    newValueInput(),
	}
	m.table = table.New(
		table.WithColumns(itemColumns(0)),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, len(items))),
	)
	m.table.SetStyles(itemTableStyles())
	m.refreshRows()
	return m
}

// Result returns the edited items and whether the user accepted them. When
// the editor was cancelled the original items are returned.
func (m *Model) Result() ([]configitem.Item, bool) {
	if !m.accepted {
		return append([]configitem.Item(nil), m.original...), false
	}
	return append([]configitem.Item(nil), m.items...), true
}

// Done reports whether the editor has finished.
func (m *Model) Done() bool {
	return m.done
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.finish(false)
		}
		if m.editing {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "esc", "q":
			return m.finish(false)
		case "ctrl+s":
			return m.finish(true)
		case "enter":
			return m, m.startEdit()
		case "left", "h":
			m.cycleOption(-1)
			return m, nil
		case "right", "l":
			m.cycleOption(1)
			return m, nil
		}
		m.errMsg = ""
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.editing {
		body := m.renderEditModal()
		if m.width == 0 || m.height == 0 {
			return body
		}
		return fitLines(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body), m.width, m.height)
	}
	parts := []string{titleStyle.Render(m.title), m.table.View(), m.renderFooter()}
	view := strings.Join(parts, "\n")
	if m.width == 0 || m.height == 0 {
		return view
	}
	return fitLines(view, m.width, m.height)
}

func (m *Model) finish(accepted bool) (tea.Model, tea.Cmd) {
	m.accepted = accepted
	m.done = true
	return m, tea.Quit
}

func (m *Model) selected() (int, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return 0, false
	}
	return idx, true
}

func editable(it configitem.Item) error {
	if it.Frozen {
		return fmt.Errorf("%w: %s is frozen", ErrReadOnly, it.Handle)
	}
	if it.Kind() == configitem.KindAction {
		return fmt.Errorf("%w: %s is an action", ErrReadOnly, it.Handle)
	}
	return nil
}

func (m *Model) startEdit() tea.Cmd {
	idx, ok := m.selected()
	if !ok {
		return nil
	}
	it := m.items[idx]
	if err := editable(it); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.editing = true
	m.input.Prompt = it.Name + ": "
	m.input.SetValue(it.FormatValue())
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.errMsg = ""
		m.input.Blur()
		return m, nil
	case "enter":
		if err := m.applyInput(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.editing = false
		m.errMsg = ""
		m.input.Blur()
		m.refreshRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyInput parses the edit buffer and overrides the selected item with it.
func (m *Model) applyInput() error {
	idx, ok := m.selected()
	if !ok {
		return nil
	}
	target := m.items[idx]
	text := strings.TrimSpace(m.input.Value())
	v, err := configitem.ParseValueFor(target.Kind(), text)
	if err != nil {
		return schemaerr.At(target.Handle, err)
	}
	incoming, err := configitem.New(target.Name, target.Handle, target.Kind(), v, target.Options)
	if err != nil {
		return err
	}
	updated, err := target.Override(incoming)
	if err != nil {
		return err
	}
	m.items[idx] = updated
	return nil
}

func (m *Model) cycleOption(step int) {
	idx, ok := m.selected()
	if !ok {
		return
	}
	it := m.items[idx]
	if it.Kind() != configitem.KindOption || len(it.Options) == 0 {
		return
	}
	if err := editable(it); err != nil {
		m.errMsg = err.Error()
		return
	}
	current := 0
	for i, opt := range it.Options {
		if opt.Handle == it.FormatValue() {
			current = i
			break
		}
	}
	next := (current + step + len(it.Options)) % len(it.Options)
	updated, err := it.WithValue(configitem.TextValue(it.Options[next].Handle))
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.items[idx] = updated
	m.refreshRows()
}

func (m *Model) changed(idx int) bool {
	return idx < len(m.original) && !m.items[idx].Equal(m.original[idx])
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.items))
	for i, it := range m.items {
		value := displayValue(it)
		if m.changed(i) {
			value += " *"
		}
		flags := ""
		switch {
		case it.Frozen:
			flags = "frozen"
		case it.Kind() == configitem.KindAction:
			flags = "action"
		}
		rows = append(rows, table.Row{it.Name, it.Handle, string(it.Kind()), value, flags})
	}
	m.table.SetRows(rows)
}

func displayValue(it configitem.Item) string {
	if it.Kind() != configitem.KindOption {
		return it.FormatValue()
	}
	for _, opt := range it.Options {
		if opt.Handle == it.FormatValue() {
			if opt.Name != "" && opt.Name != opt.Handle {
				return fmt.Sprintf("%s (%s)", opt.Name, opt.Handle)
			}
			break
		}
	}
	return it.FormatValue()
}

func (m *Model) updateLayout() {
	m.table.SetColumns(itemColumns(m.width))
	titleHeight := lipgloss.Height(titleStyle.Render("X"))
	// header row, its border and the footer
	m.table.SetHeight(maxInt(1, m.height-titleHeight-3))
	m.table.SetWidth(m.width)
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	dirty := 0
	for i := range m.items {
		if m.changed(i) {
			dirty++
		}
	}
	help := "enter edit  ←/→ option  ctrl+s save  esc/q cancel"
	if dirty > 0 {
		return dirtyStyle.Render(fmt.Sprintf("%d changed", dirty)) + headerStyle.Render("  "+help)
	}
	return headerStyle.Render(help)
}

func (m *Model) renderEditModal() string {
	lines := []string{m.input.View()}
	if idx, ok := m.selected(); ok {
		it := m.items[idx]
		if it.Kind() == configitem.KindOption {
			handles := make([]string, 0, len(it.Options))
			for _, opt := range it.Options {
				handles = append(handles, opt.Handle)
			}
			lines = append(lines, headerStyle.Render("options: "+strings.Join(handles, ", ")))
		}
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, headerStyle.Render("enter apply  esc back"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func newValueInput() textinput.Model {
	input := textinput.New()
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func itemColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Handle", Width: 20},
		{Title: "Kind", Width: 6},
		{Title: "Value", Width: 24},
		{Title: "", Width: 6},
	}
	if width <= 0 {
		return cols
	}
	fixed := 0
	for i, c := range cols {
		if i != 3 {
			fixed += c.Width + 1
		}
	}
	cols[3].Width = maxInt(8, width-fixed-1)
	return cols
}

func itemTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	w := lipgloss.Width(line)
	if w >= width {
		return line
	}
	return line + strings.Repeat(" ", width-w)
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
