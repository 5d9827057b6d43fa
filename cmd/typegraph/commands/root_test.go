package commands_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/archscope/typegraph/cmd/typegraph/commands"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Run("Should display help when no arguments provided", func(t *testing.T) {
		rootCmd := &cobra.Command{
			Use:   "typegraph",
			Short: "A type dependency analyzer with multi-dimensional strength scoring",
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Help()
			},
		}

		output, err := executeCommand(rootCmd)

		require.NoError(t, err)
		assert.Contains(t, output, "typegraph")
		assert.Contains(t, output, "A type dependency analyzer")
	})

	t.Run("Should handle --help flag", func(t *testing.T) {
		rootCmd := &cobra.Command{
			Use:   "typegraph",
			Short: "A type dependency analyzer with multi-dimensional strength scoring",
			Long: `TypeGraph analyzes the type dependency structure of a codebase and
scores every dependency edge across six strength dimensions.`,
		}

		output, err := executeCommand(rootCmd, "--help")

		require.NoError(t, err)
		assert.Contains(t, output, "TypeGraph")
		assert.Contains(t, output, "six strength dimensions")
	})
}

func TestInitConfig(t *testing.T) {
	t.Run("Should initialize configuration without a config file", func(t *testing.T) {
		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer func() {
			err := os.Chdir(originalDir)
			require.NoError(t, err)
		}()

		tmpDir := t.TempDir()
		err = os.Chdir(tmpDir)
		require.NoError(t, err)

		commands.InitConfig()
	})

	t.Run("Should handle config file in current directory", func(t *testing.T) {
		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer func() {
			err := os.Chdir(originalDir)
			require.NoError(t, err)
		}()

		tmpDir := t.TempDir()
		err = os.Chdir(tmpDir)
		require.NoError(t, err)

		configContent := `
analysis:
  cycle_handling: break
  max_workers: 2
`
		err = os.WriteFile("typegraph.yaml", []byte(configContent), 0644)
		require.NoError(t, err)

		commands.InitConfig()
	})
}

func TestCommandRegistration(t *testing.T) {
	t.Run("Should register all subcommands", func(t *testing.T) {
		commands.InitAnalyzeCommand()
		commands.InitPathsCommand()
		commands.InitClearCommand()
		commands.InitInitCommand()
		commands.InitVersionCommand()
	})

	t.Run("Should handle multiple init calls safely", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			commands.InitAnalyzeCommand()
			commands.InitPathsCommand()
			commands.InitClearCommand()
			commands.InitInitCommand()
			commands.InitVersionCommand()
		}
	})
}

func TestCommandOutput(t *testing.T) {
	t.Run("Should format help output correctly", func(t *testing.T) {
		rootCmd := &cobra.Command{
			Use:   "typegraph",
			Short: "A type dependency analyzer",
			Long:  "Long description here",
		}
		subCmd := &cobra.Command{
			Use:   "test",
			Short: "Test command",
		}
		rootCmd.AddCommand(subCmd)

		output, err := executeCommand(rootCmd, "help")

		require.NoError(t, err)
		assert.Contains(t, output, "Available Commands:")
		assert.Contains(t, output, "test")
	})

	t.Run("Should trim trailing whitespace in output", func(t *testing.T) {
		rootCmd := &cobra.Command{
			Use:   "typegraph",
			Short: "A type dependency analyzer",
		}

		output, err := executeCommand(rootCmd, "--help")

		require.NoError(t, err)
		lines := strings.Split(output, "\n")
		for _, line := range lines {
			assert.Equal(t, strings.TrimRight(line, " "), line)
		}
	})
}
