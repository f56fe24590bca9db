package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/habitmaster/core/internal/domain/entities"
)

const separatorWidth = 30

// Printer renders habit reports. Styling degrades to plain text when the
// writer is not a terminal.
type Printer struct {
	out   io.Writer
	title lipgloss.Style
	label lipgloss.Style
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:   out,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Bold(true),
	}
}

// Println writes a plain line
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text
func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// Habits prints every habit with its category and completion dates
func (p *Printer) Habits(habits []entities.HabitSummary) {
	if len(habits) == 0 {
		p.Println("No habits found. Please add some habits first.")
		return
	}

	p.Println()
	p.Println(p.title.Render("Habits:"))
	for _, h := range habits {
		p.field("Name", h.Name)
		p.field("Category", h.Category)
		p.field("Completion Dates", strings.Join(h.Dates, ", "))
		p.Println(strings.Repeat("-", separatorWidth))
	}
}

// Streaks prints current and longest streak per habit
func (p *Printer) Streaks(streaks []entities.HabitStreak) {
	if len(streaks) == 0 {
		p.Println("No habits found. Please add some habits first.")
		return
	}

	p.Println()
	p.Println(p.title.Render("Habit Streaks:"))
	for _, s := range streaks {
		p.field("Name", s.Name)
		p.field("Current Streak", days(s.CurrentStreak))
		p.field("Longest Streak", days(s.LongestStreak))
		p.Println(strings.Repeat("-", separatorWidth))
	}
}

func (p *Printer) field(name, value string) {
	p.Printf("%s %s\n", p.label.Render(name+":"), value)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
