package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goharsahi/mezzio-hal/internal/cli/config"
	"github.com/goharsahi/mezzio-hal/internal/cli/ui"
	"github.com/goharsahi/mezzio-hal/metadata"
)

var (
	// Global flags for the introspect command
	outputFormat string
	verbose      bool
	noColor      bool
)

// NewIntrospectCommand creates the introspect command
func NewIntrospectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introspect [file]",
		Short: "Inspect a compiled metadata map",
		Long: `Inspect a compiled metadata map.

Compiles the metadata document and renders every mapped class with its
variant and rendering rules. This is useful for:
  • Verifying which classes an application can render
  • Checking pagination and extractor wiring at a glance
  • Feeding tooling with a machine-readable view (--format json)

If no file is given, the document configured in halmeta.yaml is used,
falling back to hal.yaml, hal.yml, or hal.json in the current directory.`,
		Example: `  # Inspect the default document
  halmeta introspect

  # Inspect a specific document
  halmeta introspect config/hal.json

  # Output in JSON format for tooling
  halmeta introspect --format json

  # Show optional elements too
  halmeta introspect --verbose`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable color output if requested
			if noColor {
				color.NoColor = true
			}
		},
		RunE: runIntrospect,
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: json or table")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show all details")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// MetadataSummary is the introspection projection of one compiled record.
type MetadataSummary struct {
	Class                     string                 `json:"class"`
	Type                      string                 `json:"type"`
	URL                       string                 `json:"url,omitempty"`
	Route                     string                 `json:"route,omitempty"`
	Extractor                 string                 `json:"extractor,omitempty"`
	CollectionRelation        string                 `json:"collection_relation,omitempty"`
	PaginationParam           string                 `json:"pagination_param,omitempty"`
	PaginationParamType       string                 `json:"pagination_param_type,omitempty"`
	ResourceIdentifier        string                 `json:"resource_identifier,omitempty"`
	RouteParams               map[string]interface{} `json:"route_params,omitempty"`
	IdentifiersToPlaceholders map[string]string      `json:"identifiers_to_placeholders_mapping,omitempty"`
	QueryStringArguments      map[string]interface{} `json:"query_string_arguments,omitempty"`
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win over the tool configuration when set explicitly.
	if !cmd.Flags().Changed("format") {
		outputFormat = cfg.Format
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	showAll := verbose || cfg.Verbose

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}
	path, err := cfg.ResolveDocument(explicit)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.DocumentNotFoundError(cfg.NoColor))
		return err
	}

	m, err := buildMapFromDocument(path, showAll)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	summaries := summarizeMap(m)

	formatter, err := GetFormatter(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if table, ok := formatter.(*TableFormatter); ok {
		table.Verbose = showAll
	}
	return formatter.Format(summaries)
}

// summarizeMap projects every record of a map into its summary form,
// ordered by class name.
func summarizeMap(m *metadata.Map) []MetadataSummary {
	summaries := make([]MetadataSummary, 0, m.Len())
	for _, class := range m.Classes() {
		record, err := m.Get(class)
		if err != nil {
			continue
		}
		summaries = append(summaries, summarizeRecord(record))
	}
	return summaries
}

// summarizeRecord flattens one record into the summary projection. Records
// from custom variants are reported through the capability interfaces they
// implement.
func summarizeRecord(record metadata.Metadata) MetadataSummary {
	s := MetadataSummary{Class: record.Class()}

	switch rec := record.(type) {
	case *metadata.URLBasedResourceMetadata:
		s.Type = metadata.TypeURLBasedResource
		s.URL = rec.URL()
		s.Extractor = rec.Extractor()
	case *metadata.URLBasedCollectionMetadata:
		s.Type = metadata.TypeURLBasedCollection
		s.URL = rec.URL()
		s.CollectionRelation = rec.CollectionRelation()
		s.PaginationParam = rec.PaginationParam()
		s.PaginationParamType = string(rec.PaginationParamType())
	case *metadata.RouteBasedResourceMetadata:
		s.Type = metadata.TypeRouteBasedResource
		s.Route = rec.Route()
		s.Extractor = rec.Extractor()
		s.ResourceIdentifier = rec.ResourceIdentifier()
		if params := rec.RouteParams(); len(params) > 0 {
			s.RouteParams = params
		}
		if mapping := rec.IdentifiersToPlaceholdersMapping(); len(mapping) > 0 {
			s.IdentifiersToPlaceholders = mapping
		}
	case *metadata.RouteBasedCollectionMetadata:
		s.Type = metadata.TypeRouteBasedCollection
		s.Route = rec.Route()
		s.CollectionRelation = rec.CollectionRelation()
		s.PaginationParam = rec.PaginationParam()
		s.PaginationParamType = string(rec.PaginationParamType())
		if params := rec.RouteParams(); len(params) > 0 {
			s.RouteParams = params
		}
		if args := rec.QueryStringArguments(); len(args) > 0 {
			s.QueryStringArguments = args
		}
	default:
		s.Type = "custom"
		if resource, ok := record.(metadata.ResourceMetadata); ok {
			s.Extractor = resource.Extractor()
		}
		if collection, ok := record.(metadata.CollectionMetadata); ok {
			s.CollectionRelation = collection.CollectionRelation()
			s.PaginationParam = collection.PaginationParam()
			s.PaginationParamType = string(collection.PaginationParamType())
		}
	}

	return s
}

// formatSummariesAsTable renders summaries grouped into resources and
// collections with one line per class.
func formatSummariesAsTable(summaries []MetadataSummary, writer io.Writer, verbose bool) error {
	if len(summaries) == 0 {
		fmt.Fprintln(writer, "No metadata registered.")
		return nil
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Fprintf(writer, "METADATA MAP (%d classes)\n\n", len(summaries))

	resources := make([]MetadataSummary, 0, len(summaries))
	collections := make([]MetadataSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.CollectionRelation != "" {
			collections = append(collections, s)
			continue
		}
		resources = append(resources, s)
	}

	if len(resources) > 0 {
		cyan.Fprintf(writer, "Resources:\n")
		for _, s := range resources {
			writeSummaryLine(writer, s, verbose)
		}
		fmt.Fprintln(writer)
	}

	if len(collections) > 0 {
		cyan.Fprintf(writer, "Collections:\n")
		for _, s := range collections {
			writeSummaryLine(writer, s, verbose)
		}
		fmt.Fprintln(writer)
	}

	return nil
}

// writeSummaryLine prints one class with its origin and variant details.
func writeSummaryLine(writer io.Writer, s MetadataSummary, verbose bool) {
	origin := "-"
	if s.URL != "" {
		origin = "url " + s.URL
	}
	if s.Route != "" {
		origin = "route " + s.Route
	}

	details := []string{}
	if s.Extractor != "" {
		details = append(details, "extractor "+s.Extractor)
	}
	if s.CollectionRelation != "" {
		details = append(details, "relation "+s.CollectionRelation)
	}

	fmt.Fprintf(writer, "  %-32s %-24s %-28s %s\n", s.Class, s.Type, origin, strings.Join(details, "  "))

	if !verbose {
		return
	}

	if s.PaginationParam != "" {
		fmt.Fprintf(writer, "    pagination: %s (%s)\n", s.PaginationParam, s.PaginationParamType)
	}
	if s.ResourceIdentifier != "" {
		fmt.Fprintf(writer, "    identifier: %s\n", s.ResourceIdentifier)
	}
	if len(s.RouteParams) > 0 {
		fmt.Fprintf(writer, "    route params: %s\n", formatPairs(s.RouteParams))
	}
	if len(s.IdentifiersToPlaceholders) > 0 {
		pairs := make(map[string]interface{}, len(s.IdentifiersToPlaceholders))
		for k, v := range s.IdentifiersToPlaceholders {
			pairs[k] = v
		}
		fmt.Fprintf(writer, "    placeholder mapping: %s\n", formatPairs(pairs))
	}
	if len(s.QueryStringArguments) > 0 {
		fmt.Fprintf(writer, "    query arguments: %s\n", formatPairs(s.QueryStringArguments))
	}
}
