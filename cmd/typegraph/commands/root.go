package commands

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typegraph",
	Short: "A type dependency analyzer with multi-dimensional strength scoring",
	Long: `TypeGraph analyzes the type dependency structure of a codebase and
scores every dependency edge across six strength dimensions: structural,
semantic, coupling, stability, criticality and testability. The scored
graph drives cycle detection, processing-order computation, path queries,
and architectural pattern classification.

Key Features:
  • Extract type nodes and dependency edges from Go source
  • Score each edge across six strength dimensions
  • Detect circular dependencies and compute safe processing orders
  • Find shortest, strongest and exhaustive paths between types
  • Classify architectural patterns and anti-patterns
  • Export reports as JSON, YAML, CSV or TSV
  • Store the scored graph in Neo4j for Cypher queries

Example workflow:
  1. Initialize configuration:  typegraph init
  2. Analyze your project:      typegraph analyze /path/to/project
  3. Trace a dependency chain:  typegraph paths pkg.UserController pkg.UserModel
  4. Clear stored data:         typegraph clear`,
}

var (
	initRootOnce sync.Once
	cfgFile      string
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	InitConfig()

	InitAnalyzeCommand()
	InitPathsCommand()
	InitClearCommand()
	InitInitCommand()
	InitVersionCommand()

	rootCmd.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasAvailableSubCommands}}{{.UsageString}}{{end}}`)

	cobra.CheckErr(rootCmd.Execute())
}

// InitConfig initializes the configuration
func InitConfig() {
	initRootOnce.Do(func() {
		rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./typegraph.yaml)")
		cobra.OnInitialize(initConfigFile)
	})
}

func initConfigFile() {
	// A .env in the working directory feeds credentials into the
	// environment before viper reads it. Missing files are fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("TYPEGRAPH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("typegraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("analysis.cycle_handling", "break")
	viper.SetDefault("analysis.high_fan_in_threshold", 10)
	viper.SetDefault("analysis.god_class_threshold", 15)
	viper.SetDefault("analysis.max_workers", 4)
	viper.SetDefault("analysis.include_tests", false)
	viper.SetDefault("export.format", "json")
	viper.SetDefault("export.pretty", true)
	// Neo4j defaults are NOT set here so environment variables take precedence

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Could not read config file %s: %s\n", cfgFile, err)
			} else {
				fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
				os.Exit(1)
			}
		}
	}
}
