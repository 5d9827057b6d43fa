package commands

import (
	"github.com/archscope/typegraph/engine/infra"
	"github.com/spf13/viper"
)

// Default Neo4j connection settings, used only when neither config file nor
// environment variables provide a value.
const (
	DefaultNeo4jURI      = "bolt://localhost:7687"
	DefaultNeo4jUsername = "neo4j"
	DefaultNeo4jPassword = "password"
)

// neo4jConfigFromViper assembles the repository config, preferring viper
// values (file or TYPEGRAPH_ environment variables) over defaults.
func neo4jConfigFromViper() *infra.Neo4jConfig {
	cfg := infra.DefaultNeo4jConfig()

	if uri := viper.GetString("neo4j.uri"); uri != "" {
		cfg.URI = uri
	} else {
		cfg.URI = DefaultNeo4jURI
	}
	if username := viper.GetString("neo4j.username"); username != "" {
		cfg.Username = username
	} else {
		cfg.Username = DefaultNeo4jUsername
	}
	if password := viper.GetString("neo4j.password"); password != "" {
		cfg.Password = password
	} else {
		cfg.Password = DefaultNeo4jPassword
	}
	cfg.Database = viper.GetString("neo4j.database")
	if batch := viper.GetInt("neo4j.batch_size"); batch > 0 {
		cfg.BatchSize = batch
	}
	return cfg
}
