package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/archscope/typegraph/engine/analyzer"
	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/export"
	"github.com/archscope/typegraph/engine/extractor"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/engine/infra"
	"github.com/archscope/typegraph/pkg/config"
	"github.com/archscope/typegraph/pkg/errors"
	"github.com/archscope/typegraph/pkg/logger"
	"github.com/archscope/typegraph/pkg/progress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze type dependencies and score their strength",
	Long: `Analyze extracts the type dependency graph of a Go project, scores every
edge across the six strength dimensions, and produces a full report.

The analysis process includes:
  • Extracting type nodes and dependency edges from source
  • Detecting circular dependencies
  • Computing dependency levels and a safe processing order
  • Scoring each edge: structural, semantic, coupling, stability,
    criticality and testability, combined into a composite strength
  • Raising strengths for repeated edges between the same pair
  • Classifying architectural patterns and anti-patterns

The report is written to stdout or --output in the configured format.
With --store the scored graph is also persisted to Neo4j.`,
	Example: `  # Analyze the current directory
  typegraph analyze .

  # Analyze a project and write a YAML report
  typegraph analyze /path/to/project --format yaml --output report.yaml

  # Analyze and persist the scored graph to Neo4j
  typegraph analyze /path/to/project --store

  # Analyze without progress indicators (for CI/scripts)
  typegraph analyze /path/to/project --no-progress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := args[0]

		return errors.WithRecover("analyze_command", func() error {
			opts, err := analyzeOptionsFromFlags(cmd, projectPath)
			if err != nil {
				return err
			}
			if opts.noProgress {
				return runAnalysis(projectPath, opts)
			}
			return runAnalysisWithProgress(projectPath, opts)
		})
	},
}

type analyzeOptions struct {
	projectID  string
	format     export.Format
	outputPath string
	store      bool
	noProgress bool
}

func analyzeOptionsFromFlags(cmd *cobra.Command, projectPath string) (*analyzeOptions, error) {
	opts := &analyzeOptions{}
	var err error

	if opts.projectID, err = cmd.Flags().GetString("project-id"); err != nil {
		return nil, err
	}
	opts.projectID = resolveProjectID(opts.projectID, projectPath)

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	if formatName == "" {
		formatName = viper.GetString("export.format")
	}
	if opts.format, err = export.ParseFormat(formatName); err != nil {
		return nil, err
	}

	if opts.outputPath, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.store, err = cmd.Flags().GetBool("store"); err != nil {
		return nil, err
	}
	if opts.noProgress, err = cmd.Flags().GetBool("no-progress"); err != nil {
		return nil, err
	}
	return opts, nil
}

// resolveProjectID prefers an explicit flag value, then the project id of a
// config file reachable from the analyzed path, then a generated one.
func resolveProjectID(flagValue, projectPath string) string {
	id, err := config.EnsureProjectID(flagValue, projectPath)
	if err != nil || id == "" {
		return core.NewID().String()
	}
	return id
}

func analyzerConfigFromViper() *analyzer.Config {
	cfg := analyzer.DefaultConfig()
	cfg.CycleHandling = analyzer.ParseCycleHandling(viper.GetString("analysis.cycle_handling"))
	if v := viper.GetInt("analysis.high_fan_in_threshold"); v > 0 {
		cfg.HighFanInThreshold = v
	}
	if v := viper.GetInt("analysis.god_class_threshold"); v > 0 {
		cfg.GodClassThreshold = v
	}
	if v := viper.GetInt("analysis.max_workers"); v > 0 {
		cfg.MaxWorkers = v
	}
	return cfg
}

func runAnalysis(projectPath string, opts *analyzeOptions) error {
	ctx := context.Background()
	startTime := time.Now()

	// -----
	// Extraction Phase
	// -----
	logger.Info("extracting type facts", "path", projectPath)
	facts, err := extractFacts(ctx, projectPath, opts.projectID)
	if err != nil {
		return err
	}

	// -----
	// Graph Building Phase
	// -----
	g := graph.BuildFromFacts(facts.Nodes, facts.Edges)
	logger.Info("graph built",
		"nodes", g.NodeCount(),
		"dependencies", g.DependencyCount())

	// -----
	// Analysis Phase
	// -----
	report, err := analyzeGraph(ctx, g, opts.projectID)
	if err != nil {
		return err
	}

	// -----
	// Report + Storage Phase
	// -----
	if err := writeReport(report, opts); err != nil {
		return err
	}
	if opts.store {
		if err := storeGraph(ctx, opts.projectID, g); err != nil {
			return err
		}
	}

	logger.Info("analysis completed successfully",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"project_id", opts.projectID)
	printSummary(os.Stderr, report)
	return nil
}

func runAnalysisWithProgress(projectPath string, opts *analyzeOptions) error {
	ctx := context.Background()

	// The TUI owns the terminal while the pipeline runs
	logger.Disable()
	defer logger.Enable()

	ap := progress.NewAdaptiveProgress(os.Stderr)
	ap.SetPhases([]progress.PhaseInfo{
		{Name: "Extracting type facts", Description: "Loading packages and collecting named types", Weight: 0.4},
		{Name: "Scoring dependencies", Description: "Cycles, levels and strength dimensions", Weight: 0.4},
		{Name: "Writing report", Description: "Exporting the analysis report", Weight: 0.2},
	})
	ap.Start("Analyzing " + projectPath)

	facts, err := extractFacts(ctx, projectPath, opts.projectID)
	if err != nil {
		ap.Error(err)
		return err
	}

	ap.UpdatePhase("Scoring dependencies")
	g := graph.BuildFromFacts(facts.Nodes, facts.Edges)
	report, err := analyzeGraph(ctx, g, opts.projectID)
	if err != nil {
		ap.Error(err)
		return err
	}

	ap.UpdatePhase("Writing report")
	if err := writeReport(report, opts); err != nil {
		ap.Error(err)
		return err
	}

	if opts.store {
		ap.UpdatePhase("Storing in Neo4j")
		if err := storeGraph(ctx, opts.projectID, g); err != nil {
			ap.Error(err)
			return err
		}
	}

	ap.SuccessWithStats("Analysis complete", progress.AnalysisStats{
		Types:        report.Graph.TotalNodes,
		Dependencies: report.Graph.TotalDependencies,
		Cycles:       report.Graph.CycleCount,
		Patterns:     len(report.Patterns),
		AntiPatterns: len(report.AntiPatterns),
		ProjectID:    opts.projectID,
	})
	return nil
}

func extractFacts(ctx context.Context, projectPath, projectID string) (*extractor.Facts, error) {
	svc := extractor.NewExtractor(&extractor.Config{
		IncludeTests: viper.GetBool("analysis.include_tests"),
	})
	facts, err := svc.ExtractProject(ctx, projectPath, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to extract project: %w", err)
	}
	return facts, nil
}

func analyzeGraph(ctx context.Context, g *graph.Graph, projectID string) (*analyzer.Report, error) {
	svc := analyzer.NewAnalyzer(analyzerConfigFromViper())
	report, err := svc.AnalyzeGraph(ctx, &analyzer.AnalysisInput{
		ProjectID: projectID,
		Graph:     g,
		Context:   graph.NewContext(g, nil),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze graph: %w", err)
	}
	return report, nil
}

func writeReport(report *analyzer.Report, opts *analyzeOptions) error {
	var writer io.Writer = os.Stdout
	if opts.outputPath != "" {
		file, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	exporter := export.NewExporter(export.DefaultOptions(opts.format))
	if err := exporter.ExportReport(writer, report); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return nil
}

func storeGraph(ctx context.Context, projectID string, g *graph.Graph) error {
	repo := infra.NewNeo4jRepository(neo4jConfigFromViper())
	if err := repo.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	defer repo.Close(ctx)

	if err := repo.StoreGraph(ctx, projectID, g); err != nil {
		return fmt.Errorf("failed to store graph: %w", err)
	}
	return nil
}

// printSummary renders the per-profile edge counts after the report itself
// has been written.
func printSummary(w io.Writer, report *analyzer.Report) {
	fmt.Fprintf(w, "\nTypes: %d  Dependencies: %d  Cycles: %d  Anti-patterns: %d\n",
		report.Graph.TotalNodes,
		report.Graph.TotalDependencies,
		report.Graph.CycleCount,
		len(report.AntiPatterns))

	if len(report.Graph.ProfileCounts) == 0 {
		return
	}
	caser := cases.Title(language.English)
	fmt.Fprintln(w, "Strength profiles:")
	for profile, count := range report.Graph.ProfileCounts {
		fmt.Fprintf(w, "  %s: %d\n", caser.String(string(profile)), count)
	}
}

var initAnalyzeOnce sync.Once

// InitAnalyzeCommand registers the analyze command
func InitAnalyzeCommand() {
	initAnalyzeOnce.Do(func() {
		rootCmd.AddCommand(analyzeCmd)

		analyzeCmd.Flags().String("project-id", "", "Project identifier (read from the project config, generated as a last resort)")
		analyzeCmd.Flags().String("format", "", "Report format: json, yaml, csv, tsv")
		analyzeCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
		analyzeCmd.Flags().Bool("store", false, "Persist the scored graph to Neo4j")
		analyzeCmd.Flags().Bool("no-progress", false, "Disable progress indicators")
	})
}
