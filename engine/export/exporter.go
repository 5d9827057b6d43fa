package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/archscope/typegraph/engine/analyzer"
	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/engine/metrics"
	"gopkg.in/yaml.v3"
)

// Format represents the export format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatCSV, FormatTSV:
		return Format(s), nil
	default:
		return "", core.NewError(
			fmt.Errorf("unknown export format %q", s),
			core.ErrorCodeUnsupportedFormat,
			map[string]any{"supported": []Format{FormatJSON, FormatYAML, FormatCSV, FormatTSV}})
	}
}

// Options contains options for exporting analysis reports
type Options struct {
	Format    Format `json:"format"`
	Pretty    bool   `json:"pretty"`    // For JSON: pretty formatting
	Headers   bool   `json:"headers"`   // For CSV/TSV: include headers
	Delimiter string `json:"delimiter"` // For CSV/TSV: custom delimiter
	NullValue string `json:"null_value"`
}

// DefaultOptions returns default export options for a format
func DefaultOptions(format Format) *Options {
	opts := &Options{
		Format:  format,
		Headers: true,
	}
	switch format {
	case FormatJSON:
		opts.Pretty = true
	case FormatCSV:
		opts.Delimiter = ","
	case FormatTSV:
		opts.Delimiter = "\t"
	}
	return opts
}

// Exporter writes analysis reports in the configured format
type Exporter struct {
	options *Options
}

// NewExporter creates a new exporter with the specified options
func NewExporter(options *Options) *Exporter {
	if options == nil {
		options = DefaultOptions(FormatJSON)
	}
	return &Exporter{options: options}
}

// ExportReport writes the full report. JSON and YAML emit the complete
// document; CSV and TSV emit the edge metrics table, the tabular view of
// the report.
func (e *Exporter) ExportReport(writer io.Writer, report *analyzer.Report) error {
	switch e.options.Format {
	case FormatJSON:
		return e.exportJSON(writer, report)
	case FormatYAML:
		return e.exportYAML(writer, report)
	case FormatCSV, FormatTSV:
		return e.ExportEdgeTable(writer, report.Edges)
	default:
		return core.NewError(
			fmt.Errorf("unsupported export format %q", e.options.Format),
			core.ErrorCodeUnsupportedFormat, nil)
	}
}

// ExportNodeTable writes per-node metrics as delimited rows
func (e *Exporter) ExportNodeTable(writer io.Writer, nodes []metrics.NodeMetrics) error {
	header := []string{"id", "fan_in", "fan_out", "stable", "unstable", "impact_score", "dependency_score"}
	rows := make([][]string, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		rows = append(rows, []string{
			string(n.ID),
			strconv.Itoa(n.FanIn),
			strconv.Itoa(n.FanOut),
			strconv.FormatBool(n.Stable),
			strconv.FormatBool(n.Unstable),
			strconv.Itoa(n.ImpactScore),
			strconv.Itoa(n.DependencyScore),
		})
	}
	return e.writeTable(writer, header, rows)
}

// ExportEdgeTable writes per-edge metrics as delimited rows
func (e *Exporter) ExportEdgeTable(writer io.Writer, edges []metrics.EdgeMetrics) error {
	header := []string{
		"source_id", "target_id", "kind", "member_name",
		"weight", "strength", "composite", "profile",
	}
	rows := make([][]string, 0, len(edges))
	for i := range edges {
		edge := &edges[i]
		rows = append(rows, []string{
			string(edge.SourceID),
			string(edge.TargetID),
			string(edge.Kind),
			e.orNull(edge.MemberName),
			strconv.Itoa(edge.Weight),
			formatFloat(edge.Strength),
			formatFloat(edge.Composite),
			e.orNull(string(edge.Profile)),
		})
	}
	return e.writeTable(writer, header, rows)
}

func (e *Exporter) exportJSON(writer io.Writer, report *analyzer.Report) error {
	var data []byte
	var err error
	if e.options.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return core.NewError(err, core.ErrorCodeExportFailed, map[string]any{"format": FormatJSON})
	}
	_, err = writer.Write(data)
	return err
}

func (e *Exporter) exportYAML(writer io.Writer, report *analyzer.Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return core.NewError(err, core.ErrorCodeExportFailed, map[string]any{"format": FormatYAML})
	}
	return encoder.Close()
}

func (e *Exporter) writeTable(writer io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(writer)
	if e.options.Delimiter != "" {
		delimiter, _ := utf8.DecodeRuneInString(e.options.Delimiter)
		csvWriter.Comma = delimiter
	}
	defer csvWriter.Flush()

	if e.options.Headers {
		if err := csvWriter.Write(header); err != nil {
			return core.NewError(err, core.ErrorCodeExportFailed, nil)
		}
	}
	for _, row := range rows {
		if err := csvWriter.Write(row); err != nil {
			return core.NewError(err, core.ErrorCodeExportFailed, nil)
		}
	}
	return nil
}

func (e *Exporter) orNull(s string) string {
	if s == "" {
		return e.options.NullValue
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Result carries metadata about one completed export
type Result struct {
	Format Format `json:"format"`
	Size   int64  `json:"size"`
}

// ExportWithMetadata exports a report and reports the bytes written
func (e *Exporter) ExportWithMetadata(writer io.Writer, report *analyzer.Report) (*Result, error) {
	counting := &countingWriter{writer: writer}
	err := e.ExportReport(counting, report)
	return &Result{Format: e.options.Format, Size: counting.count}, err
}

// countingWriter is a wrapper that counts bytes written
type countingWriter struct {
	writer io.Writer
	count  int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.writer.Write(p)
	cw.count += int64(n)
	return n, err
}
