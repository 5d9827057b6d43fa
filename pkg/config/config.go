package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigFileName = ".typegraph"
	defaultConfigType     = "yaml"
	defaultNeo4jURI       = "bolt://localhost:7687"
	defaultNeo4jUser      = "neo4j"
	envPrefix             = "TYPEGRAPH"
)

// Config represents the application configuration
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ProjectConfig represents project-specific configuration
type ProjectConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	RootPath string `mapstructure:"root_path"`
}

// Neo4jConfig represents Neo4j connection configuration
type Neo4jConfig struct {
	URI       string `mapstructure:"uri"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	BatchSize int    `mapstructure:"batch_size"`
}

// AnalysisConfig represents analysis configuration. Unknown cycle_handling
// values are accepted here and resolved to a safe default downstream.
type AnalysisConfig struct {
	CycleHandling      string `mapstructure:"cycle_handling"`
	HighFanInThreshold int    `mapstructure:"high_fan_in_threshold"`
	GodClassThreshold  int    `mapstructure:"god_class_threshold"`
	MaxWorkers         int    `mapstructure:"max_workers"`
	IncludeTests       bool   `mapstructure:"include_tests"`
}

// ExportConfig represents report export configuration
type ExportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	Pretty bool   `mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			ID:       "",
			Name:     "default",
			RootPath: ".",
		},
		Neo4j: Neo4jConfig{
			URI:       defaultNeo4jURI,
			Username:  defaultNeo4jUser,
			Password:  "",
			Database:  "",
			BatchSize: 1000,
		},
		Analysis: AnalysisConfig{
			CycleHandling:      "break",
			HighFanInThreshold: 10,
			GodClassThreshold:  15,
			MaxWorkers:         4,
			IncludeTests:       false,
		},
		Export: ExportConfig{
			Format: "json",
			Output: "",
			Pretty: true,
		},
	}
}

// Load loads configuration from a file, falling back to defaults when no
// file exists. Environment variables prefixed TYPEGRAPH_ override file
// values (TYPEGRAPH_NEO4J_PASSWORD overrides neo4j.password).
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		possiblePaths := []string{
			filepath.Join(".", "typegraph.yaml"),
			filepath.Join(".", defaultConfigFileName+"."+defaultConfigType),
		}
		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType(defaultConfigType)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to a file
func Save(cfg *Config, configPath string) error {
	if configPath == "" {
		configPath = filepath.Join(".", defaultConfigFileName+"."+defaultConfigType)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(defaultConfigType)
	// Leaf keys are set individually so the written file uses the same
	// snake_case keys Load unmarshals.
	v.Set("project.id", cfg.Project.ID)
	v.Set("project.name", cfg.Project.Name)
	v.Set("project.root_path", cfg.Project.RootPath)
	v.Set("neo4j.uri", cfg.Neo4j.URI)
	v.Set("neo4j.username", cfg.Neo4j.Username)
	v.Set("neo4j.password", cfg.Neo4j.Password)
	v.Set("neo4j.database", cfg.Neo4j.Database)
	v.Set("neo4j.batch_size", cfg.Neo4j.BatchSize)
	v.Set("analysis.cycle_handling", cfg.Analysis.CycleHandling)
	v.Set("analysis.high_fan_in_threshold", cfg.Analysis.HighFanInThreshold)
	v.Set("analysis.god_class_threshold", cfg.Analysis.GodClassThreshold)
	v.Set("analysis.max_workers", cfg.Analysis.MaxWorkers)
	v.Set("analysis.include_tests", cfg.Analysis.IncludeTests)
	v.Set("export.format", cfg.Export.Format)
	v.Set("export.output", cfg.Export.Output)
	v.Set("export.pretty", cfg.Export.Pretty)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate ensures the configuration is usable for an analysis run
func (c *Config) Validate() error {
	if c.Project.ID == "" {
		return fmt.Errorf("project.id is required - run 'typegraph init --project-id <your-project-id>' to initialize")
	}
	if c.Project.Name == "" {
		c.Project.Name = c.Project.ID
	}
	if c.Project.RootPath == "" {
		c.Project.RootPath = "."
	}
	return nil
}
