package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pindeps/pkg/lockfile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PackageListModel - Interactive package browsing
// =============================================================================

// PackageListModel is the bubbletea model for browsing resolved packages.
type PackageListModel struct {
	Title    string
	Entries  []lockfile.PackageEntry
	Cursor   int
	Height   int
	Offset   int
	ShowInfo bool // show the marker/group detail pane for the cursor entry
}

// NewPackageListModel creates a new package list model.
func NewPackageListModel(title string, entries []lockfile.PackageEntry) PackageListModel {
	return PackageListModel{
		Title:   title,
		Entries: entries,
		Height:  15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.ShowInfo = !m.ShowInfo
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		badge := ""
		switch {
		case e.Dev:
			badge = StyleWarning.Render(" [dev]")
		case e.ExtraGroup != "":
			badge = StyleHighlight.Render(" [" + e.ExtraGroup + "]")
		}

		line := fmt.Sprintf("%s%-32s %s", cursor, e.Name, listDimStyle.Render(e.Version))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line) + badge)
		} else {
			b.WriteString(listNormalStyle.Render(line) + badge)
		}
		b.WriteString("\n")
	}

	if m.ShowInfo && m.Cursor < len(m.Entries) {
		e := m.Entries[m.Cursor]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
		b.WriteString("\n")
		b.WriteString("  " + StyleValue.Render(e.Requirement()) + "\n")
		if e.Markers != "" {
			b.WriteString("  " + listDimStyle.Render("marker: "+e.Markers) + "\n")
		}
		if e.ExtraGroup != "" {
			b.WriteString("  " + listDimStyle.Render("extra: "+e.ExtraGroup) + "\n")
		}
		if e.Dev {
			b.WriteString("  " + listDimStyle.Render("dev-only dependency") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}
