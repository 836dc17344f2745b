package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/db/migrate"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/jonathan/talent-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

var appliedAt = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

func detail(id int64, name string, status types.Status, offset time.Duration) db.ApplicationDetail {
	return db.ApplicationDetail{
		Application:   db.Application{ID: id, Status: status, AppliedAt: appliedAt.Add(offset)},
		CandidateName: name,
		JobTitle:      "Platform Engineer",
	}
}

func TestPrintPipelineSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	proj := pipeline.Project([]db.ApplicationDetail{
		detail(1, "Ada Lovelace", types.StatusApplied, 0),
		detail(2, "Grace Hopper", types.StatusApplied, time.Hour),
		detail(3, "Alan Turing", "on_hold", 0),
	})
	p.PrintPipelineSummary(&proj)
	output := buf.String()

	assert.Contains(t, output, "PIPELINE")
	assert.Contains(t, output, "Total applications: 3")
	assert.Contains(t, output, "on_hold (legacy)")
	assert.Less(t, strings.Index(output, "applied"), strings.Index(output, "on_hold"))
}

func TestPrintPipelineSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPipelineSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPipelineGroups(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	apps := []db.ApplicationDetail{detail(99, "Alan Turing", types.StatusHired, 0)}
	for i := int64(1); i <= 7; i++ {
		apps = append(apps, detail(i, "Candidate", types.StatusScreening, time.Duration(i)*time.Minute))
	}
	proj := pipeline.Project(apps)
	p.PrintPipelineGroups(&proj)
	output := buf.String()

	assert.Contains(t, output, "SCREENING (7)")
	assert.Contains(t, output, "HIRED (1)")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "#99")
	assert.Contains(t, output, "Platform Engineer, applied 2026-03-09")
	assert.Less(t, strings.Index(output, "SCREENING"), strings.Index(output, "HIRED"))
}

func TestPrintMigrationStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMigrationStatus([]migrate.Status{
		{Migration: migrate.Migration{Version: 1, Name: "init"}, Applied: true, AppliedAt: &appliedAt},
		{Migration: migrate.Migration{Version: 2, Name: "application_version"}},
	})
	output := buf.String()

	assert.Contains(t, output, "MIGRATIONS")
	assert.Contains(t, output, "2026-03-09T10:00:00Z")
	assert.Contains(t, output, "pending")
	assert.Contains(t, output, "1 applied, 1 pending")
}

func TestPrintMigrationStatus_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMigrationStatus(nil)
	assert.Contains(t, buf.String(), "NO MIGRATIONS FOUND")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
