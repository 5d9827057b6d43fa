package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/archscope/typegraph/engine/analyzer"
	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/export"
	"github.com/archscope/typegraph/engine/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *analyzer.Report {
	return &analyzer.Report{
		ID:        "report-1",
		ProjectID: "demo",
		Graph: metrics.GraphMetrics{
			TotalNodes:        2,
			TotalDependencies: 1,
			AverageStrength:   0.8,
		},
		Nodes: []metrics.NodeMetrics{
			{ID: "UserModel", FanIn: 2, Stable: true, ImpactScore: 4, DependencyScore: 1},
			{ID: "UserService", FanIn: 1, FanOut: 2, ImpactScore: 2, DependencyScore: 3},
		},
		Edges: []metrics.EdgeMetrics{
			{
				SourceID:  "UserService",
				TargetID:  "UserModel",
				Kind:      core.KindProperty,
				Weight:    6,
				Strength:  0.6,
				Composite: 0.55,
				Profile:   core.ProfileBalanced,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Run("Should accept the supported formats", func(t *testing.T) {
		for _, name := range []string{"json", "yaml", "csv", "tsv"} {
			format, err := export.ParseFormat(name)
			require.NoError(t, err)
			assert.Equal(t, export.Format(name), format)
		}
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := export.ParseFormat("xml")

		require.Error(t, err)
		var coreErr *core.Error
		require.ErrorAs(t, err, &coreErr)
		assert.Equal(t, core.ErrorCodeUnsupportedFormat, coreErr.Code)
	})
}

func TestExportReport(t *testing.T) {
	t.Run("Should emit indented JSON by default", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(nil)

		err := exporter.ExportReport(&buf, sampleReport())

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "\n  ")

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "demo", decoded["project_id"])
	})

	t.Run("Should emit compact JSON when pretty is off", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(&export.Options{Format: export.FormatJSON})

		err := exporter.ExportReport(&buf, sampleReport())

		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "\n")
	})

	t.Run("Should emit a decodable YAML document", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(export.DefaultOptions(export.FormatYAML))

		err := exporter.ExportReport(&buf, sampleReport())

		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "demo", decoded["projectid"])
	})

	t.Run("Should emit the edge table for CSV", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(export.DefaultOptions(export.FormatCSV))

		err := exporter.ExportReport(&buf, sampleReport())

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "source_id,target_id,kind,member_name,weight,strength,composite,profile", lines[0])
		assert.Equal(t, "UserService,UserModel,Property,,6,0.6,0.55,Balanced", lines[1])
	})

	t.Run("Should use a tab delimiter for TSV", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(export.DefaultOptions(export.FormatTSV))

		err := exporter.ExportReport(&buf, sampleReport())

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.NotEmpty(t, lines)
		assert.Contains(t, lines[0], "source_id\ttarget_id")
	})

	t.Run("Should fail on an unsupported configured format", func(t *testing.T) {
		exporter := export.NewExporter(&export.Options{Format: export.Format("xml")})

		err := exporter.ExportReport(&bytes.Buffer{}, sampleReport())

		require.Error(t, err)
		var coreErr *core.Error
		require.ErrorAs(t, err, &coreErr)
		assert.Equal(t, core.ErrorCodeUnsupportedFormat, coreErr.Code)
	})
}

func TestExportTables(t *testing.T) {
	t.Run("Should write node metrics with headers", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(export.DefaultOptions(export.FormatCSV))

		err := exporter.ExportNodeTable(&buf, sampleReport().Nodes)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "id,fan_in,fan_out,stable,unstable,impact_score,dependency_score", lines[0])
		assert.Equal(t, "UserModel,2,0,true,false,4,1", lines[1])
	})

	t.Run("Should omit headers when disabled", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(&export.Options{Format: export.FormatCSV, Delimiter: ","})

		err := exporter.ExportNodeTable(&buf, sampleReport().Nodes)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
	})

	t.Run("Should substitute the null value for empty cells", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(&export.Options{
			Format:    export.FormatCSV,
			Delimiter: ",",
			NullValue: "NULL",
		})

		err := exporter.ExportEdgeTable(&buf, sampleReport().Edges)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "NULL")
	})
}

func TestExportWithMetadata(t *testing.T) {
	t.Run("Should report the byte count and format", func(t *testing.T) {
		var buf bytes.Buffer
		exporter := export.NewExporter(export.DefaultOptions(export.FormatJSON))

		result, err := exporter.ExportWithMetadata(&buf, sampleReport())

		require.NoError(t, err)
		assert.Equal(t, export.FormatJSON, result.Format)
		assert.Equal(t, int64(buf.Len()), result.Size)
		assert.Positive(t, result.Size)
	})
}
