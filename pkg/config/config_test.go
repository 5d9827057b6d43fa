package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/archscope/typegraph/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
	require.NoError(t, os.Chdir(dir))
}

func TestDefaultConfig(t *testing.T) {
	t.Run("Should return valid default configuration", func(t *testing.T) {
		cfg := config.DefaultConfig()

		assert.Empty(t, cfg.Project.ID)
		assert.Equal(t, "default", cfg.Project.Name)
		assert.Equal(t, ".", cfg.Project.RootPath)

		assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
		assert.Equal(t, "neo4j", cfg.Neo4j.Username)
		assert.Empty(t, cfg.Neo4j.Password)
		assert.Equal(t, 1000, cfg.Neo4j.BatchSize)

		assert.Equal(t, "break", cfg.Analysis.CycleHandling)
		assert.Equal(t, 10, cfg.Analysis.HighFanInThreshold)
		assert.Equal(t, 15, cfg.Analysis.GodClassThreshold)
		assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
		assert.False(t, cfg.Analysis.IncludeTests)

		assert.Equal(t, "json", cfg.Export.Format)
		assert.True(t, cfg.Export.Pretty)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should return default config when file does not exist", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := config.Load("")

		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("Should load values from an explicit file and keep defaults elsewhere", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		content := `
project:
  id: "order-service"
  name: "Order Service"
analysis:
  cycle_handling: throw
  max_workers: 8
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg, err := config.Load(configPath)

		require.NoError(t, err)
		assert.Equal(t, "order-service", cfg.Project.ID)
		assert.Equal(t, "Order Service", cfg.Project.Name)
		assert.Equal(t, "throw", cfg.Analysis.CycleHandling)
		assert.Equal(t, 8, cfg.Analysis.MaxWorkers)
		// Untouched sections keep their defaults
		assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
		assert.Equal(t, "json", cfg.Export.Format)
	})

	t.Run("Should find typegraph.yaml in the working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := "project:\n  id: discovered\n"
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "typegraph.yaml"), []byte(content), 0644))
		chdir(t, tmpDir)

		cfg, err := config.Load("")

		require.NoError(t, err)
		assert.Equal(t, "discovered", cfg.Project.ID)
	})

	t.Run("Should let environment variables override file values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "typegraph.yaml")
		content := `
neo4j:
  uri: "bolt://localhost:7687"
  password: "from-file"
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
		t.Setenv("TYPEGRAPH_NEO4J_PASSWORD", "from-env")

		cfg, err := config.Load(configPath)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Neo4j.Password)
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("project: [unclosed"), 0644))

		_, err := config.Load(configPath)
		assert.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	t.Run("Should round-trip the configuration through a file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "typegraph.yaml")
		cfg := config.DefaultConfig()
		cfg.Project.ID = "round-trip"
		cfg.Neo4j.Password = "secret"
		cfg.Neo4j.BatchSize = 250
		cfg.Analysis.MaxWorkers = 2
		cfg.Analysis.HighFanInThreshold = 7

		require.NoError(t, config.Save(cfg, configPath))

		loaded, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "round-trip", loaded.Project.ID)
		assert.Equal(t, "secret", loaded.Neo4j.Password)
		assert.Equal(t, 250, loaded.Neo4j.BatchSize)
		assert.Equal(t, 2, loaded.Analysis.MaxWorkers)
		assert.Equal(t, 7, loaded.Analysis.HighFanInThreshold)
	})

	t.Run("Should write snake_case keys readable outside this package", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "typegraph.yaml")
		cfg := config.DefaultConfig()
		cfg.Project.RootPath = "/srv/app"

		require.NoError(t, config.Save(cfg, configPath))

		raw, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "root_path")
		assert.Contains(t, string(raw), "batch_size")
		assert.Contains(t, string(raw), "cycle_handling")
	})
}

func TestValidate(t *testing.T) {
	t.Run("Should require a project id", func(t *testing.T) {
		cfg := config.DefaultConfig()

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "typegraph init")
	})

	t.Run("Should backfill name and root path from the id", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Project.ID = "backfill"

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "backfill", cfg.Project.Name)
		assert.Equal(t, ".", cfg.Project.RootPath)
	})
}
