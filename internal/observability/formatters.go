// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/talent-tracker/internal/db/migrate"
	"github.com/jonathan/talent-tracker/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintPipelineSummary outputs the count per status.
func (p *Printer) PrintPipelineSummary(proj *pipeline.Projection) {
	if proj == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total applications: %d\n", proj.Total()))
	if len(proj.Stats) > 0 {
		sb.WriteString("\n")
	}
	for _, st := range proj.Stats {
		label := string(st.Status)
		if !st.Status.IsKnown() {
			label += " (legacy)"
		}
		sb.WriteString(fmt.Sprintf("  %-30s %5d\n", label, st.Count))
	}

	p.printBox("PIPELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPipelineGroups outputs one box per status with its newest applications.
func (p *Printer) PrintPipelineGroups(proj *pipeline.Projection) {
	if proj == nil {
		return
	}

	for _, group := range proj.Groups {
		var sb strings.Builder
		count := min(len(group.Applications), maxItemsToShow)
		for i := 0; i < count; i++ {
			app := group.Applications[i]
			sb.WriteString(fmt.Sprintf("#%-5d %s\n", app.ID, app.CandidateName))
			sb.WriteString(fmt.Sprintf("       %s, applied %s\n", app.JobTitle, app.AppliedAt.Format("2006-01-02")))
		}
		if len(group.Applications) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(group.Applications)-maxItemsToShow))
		}

		title := fmt.Sprintf("%s (%d)", strings.ToUpper(string(group.Status)), len(group.Applications))
		p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintMigrationStatus outputs every known migration and when it was applied.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMigrationStatus(statuses []migrate.Status) {
	if len(statuses) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MIGRATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	pending := 0
	for _, s := range statuses {
		state := "pending"
		if s.Applied && s.AppliedAt != nil {
			state = s.AppliedAt.UTC().Format(time.RFC3339)
		} else {
			pending++
		}
		sb.WriteString(fmt.Sprintf("V%-4d %-24s %s\n", s.Version, s.Name, state))
	}
	sb.WriteString(fmt.Sprintf("\n%d applied, %d pending", len(statuses)-pending, pending))

	p.printBox("MIGRATIONS", sb.String())
}
