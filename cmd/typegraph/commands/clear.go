package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/archscope/typegraph/engine/infra"
	"github.com/archscope/typegraph/pkg/logger"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <project-id>",
	Short: "Clear stored project data from Neo4j",
	Long: `Clear removes every type node and dependency relationship stored for a
project from the Neo4j database.

Safety features:
  • Confirmation prompt before deletion (bypass with --force)
  • Dry-run mode to preview what will be deleted

WARNING: This operation cannot be undone.`,
	Example: `  # Clear a project (with confirmation)
  typegraph clear project-123

  # Clear without confirmation prompt
  typegraph clear project-123 --force

  # See what would be cleared without actually clearing
  typegraph clear project-123 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID := args[0]
		if projectID == "" {
			return fmt.Errorf("project ID cannot be empty")
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		if dryRun {
			logger.Info("DRY RUN: would clear", "project_id", projectID)
			return nil
		}

		if !force {
			fmt.Printf("\nWARNING: This will permanently delete project '%s'!\n", projectID)
			fmt.Print("Are you sure you want to continue? [y/N]: ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				logger.Info("operation canceled")
				return nil
			}
		}

		ctx := context.Background()
		repo := infra.NewNeo4jRepository(neo4jConfigFromViper())
		if err := repo.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to Neo4j: %w", err)
		}
		defer repo.Close(ctx)

		if err := repo.ClearProject(ctx, projectID); err != nil {
			return fmt.Errorf("failed to clear project: %w", err)
		}

		logger.Info("project data cleared successfully", "project_id", projectID)
		return nil
	},
}

var initClearOnce sync.Once

// InitClearCommand registers the clear command
func InitClearCommand() {
	initClearOnce.Do(func() {
		rootCmd.AddCommand(clearCmd)

		clearCmd.Flags().BoolP("force", "f", false, "Force clear without confirmation")
		clearCmd.Flags().BoolP("dry-run", "d", false, "Show what would be cleared without actually clearing")
	})
}
