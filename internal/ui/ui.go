// Package ui implements the interactive preview using bubbletea's Elm architecture.
//
// The preview shows the fully resolved playlist before it is written anywhere:
// one [list.Model] of tracks with title, artist and album, navigable with
// vim-style bindings (j/k, q) and contextual help via charmbracelet/bubbles/help.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"mixdown/internal/playlist"
	"mixdown/internal/shared"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).MarginBottom(1)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
)

// keyMap defines the [key.Binding] mapping for the preview.
type keyMap struct {
	up   key.Binding
	down key.Binding
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down, k.quit}}
}

var _ list.Item = trackItem{}

// trackItem wraps a resolved entry to implement [list.Item].
type trackItem struct {
	entry playlist.Entry
}

func (i trackItem) FilterValue() string { return i.entry.Title() }
func (i trackItem) Title() string       { return i.entry.Title() }
func (i trackItem) Description() string {
	desc := i.entry.Property("album")
	if t, ok := i.entry.(*playlist.Track); ok && t.Response() != nil {
		dur := shared.FormatDuration(t.Response().DurationMS)
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, dur)
		} else {
			desc = dur
		}
	}
	return desc
}

// Model represents the preview state.
type Model struct {
	name   string
	tracks list.Model
	count  int
	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel builds a preview over the final queue.
func NewModel(name string, entries []playlist.Entry) Model {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		if e.Resolved() {
			items = append(items, trackItem{entry: e})
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		name:   name,
		tracks: l,
		count:  len(items),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := titleStyle.Render(m.name) + " " + countStyle.Render(fmt.Sprintf("%d tracks", m.count))
	return fmt.Sprintf("%s\n%s\n%s", header, m.tracks.View(), helpStyle.Render(m.help.View(m.keys)))
}

// Run renders the preview until the user quits.
func Run(name string, entries []playlist.Entry) error {
	_, err := tea.NewProgram(NewModel(name, entries), tea.WithAltScreen()).Run()
	return err
}
