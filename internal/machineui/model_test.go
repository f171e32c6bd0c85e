package machineui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaide/seaconfig/internal/configitem"
)

func testItems(t *testing.T) []configitem.Item {
	t.Helper()
	objective, err := configitem.NewOption("Objective", "objective", "20x", []configitem.Option{
		{Name: "10x Plan", Handle: "10x"},
		{Name: "20x Plan", Handle: "20x"},
		{Name: "40x Plan", Handle: "40x"},
	})
	require.NoError(t, err)
	serial := configitem.NewText("Serial", "serial", "SQ-001")
	serial.Frozen = true
	return []configitem.Item{
		configitem.NewInt("Binning", "binning", 1),
		configitem.NewFloat("Stage speed", "stage_speed", 2.5),
		objective,
		configitem.NewBool("Laser autofocus", "laser_af", false),
		serial,
		configitem.NewAction("Home stage", "home", "all"),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func moveTo(m *Model, row int) {
	for i := 0; i < row; i++ {
		send(m, "down")
	}
}

func edit(t *testing.T, m *Model, text string) {
	t.Helper()
	send(m, "enter")
	require.True(t, m.editing)
	m.input.SetValue(text)
	send(m, "enter")
}

func TestEditIntAndAccept(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	edit(t, m, "4")
	assert.False(t, m.editing)
	assert.Empty(t, m.errMsg)

	cmd := send(m, "ctrl+s")
	require.NotNil(t, cmd)
	assert.True(t, m.Done())

	items, ok := m.Result()
	require.True(t, ok)
	got, err := items[0].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
}

func TestFloatEditKeepsFloatSubtype(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	moveTo(m, 1)
	edit(t, m, "3")
	send(m, "ctrl+s")

	items, _ := m.Result()
	assert.Equal(t, configitem.TypeFloat, items[1].Value().Type())
	got, err := items[1].Float()
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestInvalidInputStaysInEditor(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	edit(t, m, "fast")
	assert.True(t, m.editing)
	assert.Contains(t, m.errMsg, "not an integer")

	send(m, "esc")
	assert.False(t, m.editing)
	send(m, "ctrl+s")
	items, _ := m.Result()
	got, err := items[0].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestOptionRejectsUnknownHandle(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	moveTo(m, 2)
	edit(t, m, "60x")
	assert.True(t, m.editing)
	assert.NotEmpty(t, m.errMsg)
}

func TestCycleOptions(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	moveTo(m, 2)
	send(m, "right")
	assert.Equal(t, "40x", m.items[2].FormatValue())
	send(m, "right")
	assert.Equal(t, "10x", m.items[2].FormatValue())
	send(m, "left", "left")
	assert.Equal(t, "20x", m.items[2].FormatValue())

	send(m, "down", "right")
	got, err := m.items[3].Bool()
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCycleIgnoresNonOptionItems(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	send(m, "right")
	assert.True(t, m.items[0].Equal(testItems(t)[0]))
}

func TestReadOnlyItems(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	moveTo(m, 4)
	send(m, "enter")
	assert.False(t, m.editing)
	assert.Contains(t, m.errMsg, "frozen")

	send(m, "down", "enter")
	assert.False(t, m.editing)
	assert.Contains(t, m.errMsg, "action")
}

func TestCancelReturnsOriginal(t *testing.T) {
	for _, k := range []string{"esc", "q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := NewModel("scope-1", testItems(t))
			edit(t, m, "8")
			cmd := send(m, k)
			require.NotNil(t, cmd)
			assert.True(t, m.Done())

			items, ok := m.Result()
			assert.False(t, ok)
			got, err := items[0].Int()
			require.NoError(t, err)
			assert.Equal(t, int64(1), got)
		})
	}
}

func TestViewMarksChangedRows(t *testing.T) {
	m := NewModel("scope-1", testItems(t))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	edit(t, m, "2")

	view := m.View()
	assert.Contains(t, view, "scope-1")
	assert.Contains(t, view, "2 *")
	assert.Contains(t, view, "1 changed")
	assert.Contains(t, view, "20x Plan (20x)")
	assert.Len(t, strings.Split(view, "\n"), 20)
}

func TestFitLinesPadsAndClips(t *testing.T) {
	out := fitLines("ab\ncdef\ng", 3, 2)
	assert.Equal(t, "ab \ncdef", out)
}
