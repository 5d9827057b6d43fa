package commands

import (
	"fmt"
	"os"
	"sync"

	"github.com/archscope/typegraph/pkg/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new typegraph configuration file",
	Long: `Initialize creates a new typegraph.yaml configuration file in the current
directory with default settings.

The configuration file includes:
  • Project identity (id, name, root path)
  • Analysis settings (cycle handling, thresholds, workers)
  • Neo4j connection details
  • Report export preferences`,
	Example: `  # Create a default configuration file
  typegraph init

  # Create a configuration bound to a stable project id
  typegraph init --project-id order-service

  # After creation, edit typegraph.yaml to customize:
  # - Neo4j connection details
  # - Cycle handling mode (throw, break, ignore)
  # - Pattern thresholds`,
	RunE: func(_ *cobra.Command, _ []string) error {
		configFile := "typegraph.yaml"
		if cfgFile != "" {
			configFile = cfgFile
		}

		if _, err := os.Stat(configFile); err == nil && !forceOverwrite {
			return fmt.Errorf("config file %s already exists. Use --force to overwrite", configFile)
		}

		cfg := config.DefaultConfig()
		cfg.Neo4j.URI = DefaultNeo4jURI
		cfg.Neo4j.Username = DefaultNeo4jUsername
		cfg.Neo4j.Password = DefaultNeo4jPassword
		if initProjectID != "" {
			cfg.Project.ID = initProjectID
			cfg.Project.Name = initProjectID
		}

		if err := config.Save(cfg, configFile); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Printf("✓ Configuration file '%s' created successfully\n", configFile)
		fmt.Println("\nNext steps:")
		fmt.Println("1. Edit the config file to configure Neo4j connection")
		fmt.Println("2. Run 'typegraph analyze <path>' to analyze your project")
		return nil
	},
}

var (
	initInitOnce   sync.Once
	forceOverwrite bool
	initProjectID  string
)

// InitInitCommand registers the init command
func InitInitCommand() {
	initInitOnce.Do(func() {
		initCmd.Flags().BoolVar(&forceOverwrite, "force", false, "Force overwrite existing config file")
		initCmd.Flags().StringVar(&initProjectID, "project-id", "", "Project identifier recorded in the config file")
		rootCmd.AddCommand(initCmd)
	})
}
