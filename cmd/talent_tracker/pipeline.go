package main

import (
	"fmt"
	"os"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/observability"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/spf13/cobra"
)

var pipelineSummaryOnly bool

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Print the hiring pipeline grouped by status",
	RunE:  runPipeline,
}

func init() {
	pipelineCmd.Flags().BoolVar(&pipelineSummaryOnly, "summary", false, "Only print the count per status")
	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	proj, err := pipeline.NewService(database, database.Activities(), log, nil).Pipeline(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintPipelineSummary(proj)
	if !pipelineSummaryOnly {
		printer.PrintPipelineGroups(proj)
	}
	return nil
}
