package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/expedition/pkg/expedition"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MetricListModel - Interactive metric selection
// =============================================================================

// MetricListModel is the bubbletea model for picking the metric to measure.
// Only measured metrics can be picked; others are listed dimmed.
type MetricListModel struct {
	Metrics  []expedition.Metric
	Now      time.Time
	Cursor   int
	Selected *expedition.Measured
	Height   int
	Offset   int
}

// NewMetricListModel creates a picker over metrics. The cursor starts on
// the first due metric.
func NewMetricListModel(metrics []expedition.Metric, now time.Time) MetricListModel {
	m := MetricListModel{Metrics: metrics, Now: now, Height: 15}
	for i, metric := range metrics {
		if metric.IsDue(now) {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m MetricListModel) Init() tea.Cmd {
	return nil
}

func (m MetricListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Metrics)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			measured, ok := m.Metrics[m.Cursor].(*expedition.Measured)
			if !ok {
				return m, nil
			}
			m.Selected = measured
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MetricListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Metric"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Metrics))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		metric := m.Metrics[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		due := ""
		if metric.IsDue(m.Now) {
			due = "due"
		}
		last := "—"
		if measured, ok := metric.(*expedition.Measured); ok {
			if d, ok := measured.Last(); ok {
				last = formatNumber(d.Value.Get()) + " " + formatDay(d.At.Get())
			}
		}
		rows = append(rows, []string{cursor, metric.Info().Caption.Get(), metric.TypeName(), last, due})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Metric", "Kind", "Last", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Metrics) {
				return lipgloss.NewStyle()
			}
			_, measurable := m.Metrics[idx].(*expedition.Measured)
			isCurrent := idx == m.Cursor

			base := lipgloss.NewStyle()
			switch {
			case !measurable:
				return base.Foreground(colorDim)
			case isCurrent:
				return base.Foreground(colorGreen).Bold(true)
			case col == 4:
				return base.Foreground(colorYellow)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Metrics))))

	return b.String()
}

// pickMetric runs the picker and returns the chosen metric, or nil if the
// user quit.
func pickMetric(metrics []expedition.Metric, now time.Time) (*expedition.Measured, error) {
	final, err := tea.NewProgram(NewMetricListModel(metrics, now)).Run()
	if err != nil {
		return nil, err
	}
	return final.(MetricListModel).Selected, nil
}
