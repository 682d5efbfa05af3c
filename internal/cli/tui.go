package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/canopy/pkg/catalog"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PlantListModel - Interactive plant selection
// =============================================================================

// PlantListModel is the bubbletea model for picking a catalog plant.
// Typing filters the list by botanical or common name.
type PlantListModel struct {
	Plants   []catalog.Summary
	Cursor   int
	Selected *catalog.Summary
	Height   int
	Offset   int
	Filter   string
}

// NewPlantListModel creates a new plant list model.
func NewPlantListModel(plants []catalog.Summary) PlantListModel {
	return PlantListModel{Plants: plants, Height: 15}
}

func (m PlantListModel) Init() tea.Cmd {
	return nil
}

// visible returns the plants matching the filter.
func (m PlantListModel) visible() []catalog.Summary {
	if m.Filter == "" {
		return m.Plants
	}
	q := strings.ToLower(m.Filter)
	var out []catalog.Summary
	for _, p := range m.Plants {
		if strings.Contains(strings.ToLower(p.BotanicalName), q) ||
			strings.Contains(strings.ToLower(p.CommonName), q) {
			out = append(out, p)
		}
	}
	return out
}

func (m PlantListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if vis := m.visible(); m.Cursor < len(vis) {
				sel := vis[m.Cursor]
				m.Selected = &sel
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PlantListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Plant"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	vis := m.visible()
	end := m.Offset + m.Height
	if end > len(vis) {
		end = len(vis)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := vis[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		common := p.CommonName
		if common == "" {
			common = "—"
		}
		rows = append(rows, []string{cursor, p.BotanicalName, common, string(p.LeafHabit), formatMeters(p.ScaleBoxCM)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Botanical name", "Common name", "Habit", "Box").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(vis) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(vis))))

	return b.String()
}

// formatMeters renders a centimetre length as metres, e.g. "25 m" or "2.5 m".
func formatMeters(cm float64) string {
	return fmt.Sprintf("%g m", cm/100)
}
