package boardcli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/mark"
	"github.com/okian/detetive/internal/domain/types"
)

var (
	border    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	header    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell      = lipgloss.NewStyle().Padding(0, 1)
	category  = cell.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))
	excluded  = cell.Faint(true)
	candidate = cell.Bold(true).Foreground(lipgloss.Color("10"))
	solved    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	markStyles = map[mark.Mark]lipgloss.Style{
		mark.No:       cell.Foreground(lipgloss.Color("9")),
		mark.Yes:      cell.Foreground(lipgloss.Color("10")),
		mark.Maybe:    cell.Foreground(lipgloss.Color("11")),
		mark.Strong:   cell.Foreground(lipgloss.Color("208")),
		mark.Revealed: cell.Foreground(lipgloss.Color("12")),
	}

	categoryTitles = map[catalog.Category]string{
		catalog.Suspects:  "Suspeitos",
		catalog.Weapons:   "Armas",
		catalog.Locations: "Locais",
	}
)

// RenderGrid draws the notepad: one line per item, one column per player,
// with a heading line before each category.
func RenderGrid(s types.Session) string {
	headers := []string{"Carta"}
	for _, p := range s.Players {
		headers = append(headers, p.Name)
	}

	var (
		rows   [][]string
		styles []func(col int) lipgloss.Style
		last   catalog.Category
	)
	for _, r := range s.Grid {
		if r.Category != last {
			last = r.Category
			line := make([]string, len(headers))
			line[0] = categoryTitles[r.Category]
			rows = append(rows, line)
			styles = append(styles, func(int) lipgloss.Style { return category })
		}

		line := []string{r.Name}
		marks := make([]mark.Mark, 0, len(s.Players))
		for _, p := range s.Players {
			m := r.Marks[p.ID]
			marks = append(marks, m)
			label := ""
			if m != mark.Empty {
				label = m.Label()
			}
			line = append(line, label)
		}
		rows = append(rows, line)

		name := cell
		switch {
		case r.SoleCandidate:
			name = candidate
		case r.Excluded:
			name = excluded
		}
		styles = append(styles, func(col int) lipgloss.Style {
			if col == 0 {
				return name
			}
			if st, ok := markStyles[marks[col-1]]; ok {
				return st
			}
			return cell
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(styles) {
				return cell
			}
			return styles[row](col)
		})

	return t.Render()
}

// RenderDeduction draws the remaining candidates side by side and, once
// every category is down to one, the solution line.
func RenderDeduction(d types.Deduction) string {
	cols := [][]string{d.Suspects, d.Weapons, d.Locations}
	height := 0
	for _, c := range cols {
		height = max(height, len(c))
	}

	rows := make([][]string, height)
	for i := range rows {
		rows[i] = make([]string, len(cols))
		for j, c := range cols {
			if i < len(c) {
				rows[i][j] = c[i]
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers(categoryTitles[catalog.Suspects], categoryTitles[catalog.Weapons], categoryTitles[catalog.Locations]).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	var b strings.Builder
	b.WriteString(t.Render())
	if d.Solved && d.Solution != nil {
		b.WriteString("\n")
		b.WriteString(solved.Render("Solução: " + d.Solution.Suspect.Name + " · " +
			d.Solution.Weapon.Name + " · " + d.Solution.Location.Name))
	}
	return b.String()
}
