// render.go
//
// Terminal output for the CLI. Tiles and headings are coloured with lipgloss
// when the output is a terminal and rendered as plain text otherwise, so
// piped output and tests stay stable.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Board colours.
var (
	colorGreen  = lipgloss.Color("#538D4E")
	colorYellow = lipgloss.Color("#B59F3B")
	colorGrey   = lipgloss.Color("#3A3A3C")
	colorText   = lipgloss.Color("#FFFFFF")
	colorMuted  = lipgloss.Color("#818384")
	colorError  = lipgloss.Color("#E74C3C")
)

var styles = struct {
	Tile    map[game.Validity]lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Bar     lipgloss.Style
}{
	Tile: map[game.Validity]lipgloss.Style{
		game.Green:  tile(colorGreen),
		game.Yellow: tile(colorYellow),
		game.Grey:   tile(colorGrey),
	},
	Title:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Success: lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Bar:     lipgloss.NewStyle().Foreground(colorGreen),
}

func tile(bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorText).Background(bg)
}

// isTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer writes CLI output, styled when color is set.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) printer {
	return printer{w: w, color: isTerminal(w)}
}

func (p printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p printer) println(a ...any) { fmt.Fprintln(p.w, a...) }

func (p printer) printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// tiles renders a guess with its feedback: coloured letter tiles on a
// terminal, "CRANE  gybbb" otherwise.
func (p printer) tiles(guess string, fb game.Feedback) string {
	upper := strings.ToUpper(guess)
	if !p.color {
		return upper + "  " + fb.String()
	}
	parts := make([]string, len(upper))
	for i := range upper {
		v := game.Grey
		if i < len(fb) {
			v = fb[i]
		}
		parts[i] = styles.Tile[v].Render(string(upper[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// round renders one solver round with the candidate count after it.
func (p printer) round(n int, r solver.Round) string {
	return fmt.Sprintf("%d. %s  %s", n, p.tiles(r.Guess, r.Feedback), p.style(styles.Muted, fmt.Sprintf("(%d left)", r.Remaining)))
}

// summary renders a bench summary with a guess histogram.
func (p printer) summary(policyName string, s solver.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.style(styles.Title, "policy "+policyName))
	fmt.Fprintf(&b, "games   %d\n", s.Games)
	fmt.Fprintf(&b, "won     %d (%.2f%%)\n", s.Wins, 100*s.WinRate())
	fmt.Fprintf(&b, "lost    %d\n", s.Losses)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "failed  %s\n", p.style(styles.Error, fmt.Sprint(s.Failed)))
	}
	fmt.Fprintf(&b, "mean    %.4f guesses\n", s.MeanGuesses)

	keys := make([]int, 0, len(s.Histogram))
	peak := 0
	for k, n := range s.Histogram {
		keys = append(keys, k)
		peak = max(peak, n)
	}
	sort.Ints(keys)
	for _, k := range keys {
		n := s.Histogram[k]
		width := 1
		if peak > 0 {
			width = max(1, n*40/peak)
		}
		fmt.Fprintf(&b, "%2d  %s %d\n", k, p.style(styles.Bar, strings.Repeat("#", width)), n)
	}
	if len(s.Lost) > 0 {
		fmt.Fprintf(&b, "lost on %s\n", strings.Join(s.Lost, ", "))
	}
	return b.String()
}
