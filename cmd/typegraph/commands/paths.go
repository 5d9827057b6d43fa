package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/extractor"
	"github.com/archscope/typegraph/engine/graph"
	"github.com/archscope/typegraph/engine/paths"
	"github.com/archscope/typegraph/pkg/progress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pathsCmd = &cobra.Command{
	Use:   "paths <from> <to>",
	Short: "Find dependency paths between two types",
	Long: `Paths extracts the dependency graph of a project and reports how two
types are connected. By default the shortest dependency chain from <from>
to <to> is printed along with its hop distance.

Modes:
  • default:     shortest dependency chain (BFS)
  • --strongest: the chain maximizing cumulative edge strength
  • --all:       every acyclic connection, following edges in both
                 directions (bounded by --max-depth)`,
	Example: `  # Shortest dependency chain in the current project
  typegraph paths myapp/api.UserController myapp/model.UserModel

  # Strongest chain after strength scoring
  typegraph paths myapp/api.UserController myapp/model.UserModel --strongest

  # Every connection up to 6 nodes long
  typegraph paths myapp/api.UserController myapp/model.UserModel --all --max-depth 6`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := core.ID(args[0]), core.ID(args[1])

		projectPath, err := cmd.Flags().GetString("path")
		if err != nil {
			return err
		}
		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return err
		}
		strongest, err := cmd.Flags().GetBool("strongest")
		if err != nil {
			return err
		}
		maxDepth, err := cmd.Flags().GetInt("max-depth")
		if err != nil {
			return err
		}

		ctx := context.Background()
		var facts *extractor.Facts
		err = progress.WithProgress("Extracting dependency graph", func() error {
			facts, err = extractFacts(ctx, projectPath, "paths")
			return err
		})
		if err != nil {
			return err
		}
		g := graph.BuildFromFacts(facts.Nodes, facts.Edges)

		if !g.HasNode(from) {
			return fmt.Errorf("type %s not found in project", from)
		}
		if !g.HasNode(to) {
			return fmt.Errorf("type %s not found in project", to)
		}

		// Strongest paths need scored edges
		if strongest {
			if _, err := analyzeGraph(ctx, g, "paths"); err != nil {
				return err
			}
		}

		finder := paths.NewFinder(g)
		switch {
		case all:
			found := finder.FindAllPaths(from, to, maxDepth)
			if len(found) == 0 {
				fmt.Println("no connection found")
				return nil
			}
			for _, path := range found {
				fmt.Println(renderPath(path))
			}
			fmt.Printf("%d path(s)\n", len(found))
		case strongest:
			path := finder.StrongestPath(from, to)
			if len(path) == 0 {
				fmt.Println("no dependency chain found")
				return nil
			}
			fmt.Println(renderPath(path))
		default:
			path := finder.FindDependencyChain(from, to)
			if len(path) == 0 {
				fmt.Println("no dependency chain found")
				return nil
			}
			fmt.Println(renderPath(path))
			fmt.Printf("distance: %d\n", finder.DependencyDistance(from, to))
		}
		return nil
	},
}

func renderPath(path []core.ID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}

var initPathsOnce sync.Once

// InitPathsCommand registers the paths command
func InitPathsCommand() {
	initPathsOnce.Do(func() {
		rootCmd.AddCommand(pathsCmd)

		pathsCmd.Flags().String("path", ".", "Project path to analyze")
		pathsCmd.Flags().Bool("all", false, "Enumerate every acyclic connection in both directions")
		pathsCmd.Flags().Bool("strongest", false, "Find the strongest dependency chain")
		pathsCmd.Flags().Int("max-depth", viper.GetInt("analysis.max_path_depth"), "Maximum path length in nodes for --all (0 = unbounded)")
	})
}
