// Package render draws tableaux for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/tableau"
)

var (
	colorHeader = lipgloss.Color("39")
	colorPivot  = lipgloss.Color("214")
	colorLegal  = lipgloss.Color("42")
	colorMuted  = lipgloss.Color("241")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	headerStyle = lipgloss.NewStyle().Foreground(colorHeader)
	cellStyle   = lipgloss.NewStyle().PaddingLeft(2).Align(lipgloss.Right)
	pivotStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(colorPivot)
	legalStyle  = lipgloss.NewStyle().Foreground(colorLegal)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

// Marks used next to cell values, so the pivot and the legal pivots are
// visible without colours too.
const (
	pivotMark = "<"
	legalMark = "*"
)

// Tableau draws t as a grid: the header row holds the non-basic variables
// and b, every row starts with its basic variable and the objective row with
// P. The selected pivot and every other legal pivot are highlighted when
// legal is set.
func Tableau[T numeric.Number[T]](t *tableau.Tableau[T], legal bool) string {
	rows, cols := t.Size()
	pi, pj, hasPivot := t.PivotIndex()

	labels := make([]string, 0, cols+1)
	labels = append(labels, fmt.Sprintf("x(%d)", t.Iteration()))
	for _, v := range t.ColVars() {
		labels = append(labels, v.String())
	}
	labels = append(labels, basis.Free.String())

	grid := make([][]string, rows+1)
	grid[0] = labels
	rowVars := t.RowVars()
	for i := 0; i < rows; i++ {
		line := make([]string, 0, cols+1)
		if i < len(rowVars) {
			line = append(line, rowVars[i].String())
		} else {
			line = append(line, "P")
		}
		for j := 0; j < cols; j++ {
			s := t.At(i, j).String()
			switch {
			case hasPivot && i == pi && j == pj:
				s += pivotMark
			case legal && t.IsPossiblePivot(i, j):
				s += legalMark
			default:
				s += " "
			}
			line = append(line, s)
		}
		grid[i+1] = line
	}

	widths := make([]int, cols+1)
	for _, line := range grid {
		for j, s := range line {
			widths[j] = max(widths[j], lipgloss.Width(s))
		}
	}

	columns := make([]string, cols+1)
	for j := range columns {
		cells := make([]string, len(grid))
		for i, line := range grid {
			style := cellStyle.Width(widths[j] + 2)
			s := line[j]
			switch {
			case i == 0 || j == 0:
				s = headerStyle.Render(s)
			case strings.HasSuffix(s, pivotMark):
				s = pivotStyle.Render(s)
			case strings.HasSuffix(s, legalMark):
				s = legalStyle.Render(s)
			}
			cells[i] = style.Render(s)
		}
		columns[j] = lipgloss.JoinVertical(lipgloss.Right, cells...)
	}

	title := titleStyle.Render(fmt.Sprintf("%v tableau %d", t.Kind(), t.Iteration()))
	footer := mutedStyle.Render(fmt.Sprintf("status: %v, objective: %v", t.Status(), t.Objective()))
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
}

// Sequence draws every tableau, one below the other.
func Sequence[T numeric.Number[T]](tables []*tableau.Tableau[T], legal bool) string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = Tableau(t, legal)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
