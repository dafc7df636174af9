package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goharsahi/mezzio-hal/internal/cli/config"
	"github.com/goharsahi/mezzio-hal/internal/cli/ui"
	"github.com/goharsahi/mezzio-hal/metadata"
)

var (
	scaffoldOutput string
	scaffoldType   string
)

// scaffoldTypeOptions lists the metadata types the prompts know how to
// compose, in the order they are offered.
var scaffoldTypeOptions = []string{
	metadata.TypeURLBasedResource,
	metadata.TypeURLBasedCollection,
	metadata.TypeRouteBasedResource,
	metadata.TypeRouteBasedCollection,
}

// validateClassName validates the domain class name entered at the prompt
func validateClassName(name string) error {
	name = strings.TrimSpace(name)

	// Check length
	if len(name) == 0 || len(name) > 255 {
		return fmt.Errorf("class name must be 1-255 characters")
	}

	if strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("class name cannot contain whitespace")
	}

	return nil
}

// NewScaffoldCommand creates the scaffold command
func NewScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [class]",
		Short: "Add a metadata map entry through interactive prompts",
		Long: `Add a metadata map entry to a configuration document through interactive prompts.

You are asked for the metadata type, the domain class and the elements that
type requires. The entry is appended to the metadataMap section of the
document, and the whole document is compiled before anything is written, so
a scaffolded entry can never leave the document invalid.

If no document exists yet you are offered a fresh hal.yaml.

Examples:
  halmeta scaffold
  halmeta scaffold "App\Author"
  halmeta scaffold --type route-based-collection --output hal.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScaffold,
	}

	cmd.Flags().StringVarP(&scaffoldOutput, "output", "o", "", "Document to append the entry to")
	cmd.Flags().StringVarP(&scaffoldType, "type", "t", "", "Metadata type to scaffold (skips the type prompt)")

	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	promptColor := color.New(color.FgYellow)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	// Metadata type from flag or prompt
	metadataType := scaffoldType
	if metadataType == "" {
		prompt := &survey.Select{
			Message: "Metadata type:",
			Options: scaffoldTypeOptions,
		}
		if err := survey.AskOne(prompt, &metadataType); err != nil {
			return err
		}
	} else {
		known := false
		for _, opt := range scaffoldTypeOptions {
			if opt == metadataType {
				known = true
				break
			}
		}
		if !known {
			// Type names are long hyphenated compounds, so allow a wide
			// edit distance when hunting for suggestions.
			suggestions := ui.FindSimilar(metadataType, scaffoldTypeOptions, &ui.FuzzyMatchOptions{
				MaxDistance:    8,
				MaxSuggestions: 2,
			})
			fmt.Fprint(cmd.ErrOrStderr(), ui.UnknownTypeError(metadataType, suggestions, cfg.NoColor))
			return fmt.Errorf("unknown metadata type: %s (supported: %s)", metadataType, strings.Join(scaffoldTypeOptions, ", "))
		}
	}

	// Domain class from args or prompt
	var class string
	if len(args) > 0 {
		class = args[0]
	}
	if class == "" {
		prompt := &survey.Input{
			Message: "Domain class:",
		}
		if err := survey.AskOne(prompt, &class, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if err := validateClassName(class); err != nil {
		return err
	}

	entry, err := promptEntryFields(metadataType, class)
	if err != nil {
		return err
	}

	path, err := resolveScaffoldDocument(cfg)
	if err != nil {
		return err
	}

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	if err := appendMetadataEntry(doc, entry); err != nil {
		return err
	}

	// Compile the whole document before touching the file.
	ctn := metadata.NewServiceContainer()
	ctn.Set(metadata.ConfigService, doc)
	if _, err := metadata.NewMapBuilder().Build(ctn); err != nil {
		return fmt.Errorf("scaffolded entry does not compile: %w", err)
	}

	if err := writeDocument(path, doc); err != nil {
		return err
	}

	infoColor.Printf("  ✓ Appended %s entry to %s\n", metadataType, path)

	// Print success message
	fmt.Println()
	successColor.Printf("✓ Added %s\n\n", class)

	promptColor.Println("Next steps:")
	fmt.Printf("  halmeta validate %s\n", path)
	fmt.Printf("  halmeta introspect %s --verbose\n", path)
	fmt.Println()

	return nil
}

// promptEntryFields walks the prompts for one metadata type and composes
// the configuration entry. Answers matching the built-in defaults are not
// written so scaffolded documents stay minimal.
func promptEntryFields(metadataType, class string) (map[string]interface{}, error) {
	entry := map[string]interface{}{metadata.ClassKey: metadataType}

	switch metadataType {
	case metadata.TypeURLBasedResource, metadata.TypeRouteBasedResource:
		entry[metadata.FieldResourceClass] = class
	default:
		entry[metadata.FieldCollectionClass] = class
	}

	switch metadataType {
	case metadata.TypeURLBasedResource, metadata.TypeURLBasedCollection:
		url, err := askRequired("URL:")
		if err != nil {
			return nil, err
		}
		entry[metadata.FieldURL] = url
	default:
		route, err := askRequired("Route name:")
		if err != nil {
			return nil, err
		}
		entry[metadata.FieldRoute] = route
	}

	switch metadataType {
	case metadata.TypeURLBasedResource:
		extractor, err := askRequired("Extractor service:")
		if err != nil {
			return nil, err
		}
		entry[metadata.FieldExtractor] = extractor

	case metadata.TypeRouteBasedResource:
		extractor, err := askRequired("Extractor service:")
		if err != nil {
			return nil, err
		}
		entry[metadata.FieldExtractor] = extractor

		identifier, err := askWithDefault("Resource identifier:", metadata.DefaultResourceIdentifier)
		if err != nil {
			return nil, err
		}
		if identifier != metadata.DefaultResourceIdentifier {
			entry[metadata.FieldResourceIdentifier] = identifier
		}

	case metadata.TypeURLBasedCollection, metadata.TypeRouteBasedCollection:
		relation, err := askRequired("Collection relation:")
		if err != nil {
			return nil, err
		}
		entry[metadata.FieldCollectionRelation] = relation

		param, err := askWithDefault("Pagination parameter:", metadata.DefaultPaginationParam)
		if err != nil {
			return nil, err
		}
		if param != metadata.DefaultPaginationParam {
			entry[metadata.FieldPaginationParam] = param
		}

		var paramType string
		prompt := &survey.Select{
			Message: "Pagination parameter type:",
			Options: []string{string(metadata.PaginationTypeQuery), string(metadata.PaginationTypePlaceholder)},
			Default: string(metadata.PaginationTypeQuery),
		}
		if err := survey.AskOne(prompt, &paramType); err != nil {
			return nil, err
		}
		if paramType != string(metadata.PaginationTypeQuery) {
			entry[metadata.FieldPaginationParamType] = paramType
		}
	}

	return entry, nil
}

// askRequired prompts for a single mandatory string.
func askRequired(message string) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: message,
	}
	if err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return value, nil
}

// askWithDefault prompts for a string with a prefilled default.
func askWithDefault(message, def string) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	if value == "" {
		value = def
	}
	return value, nil
}

// resolveScaffoldDocument picks the document to modify. When nothing is
// found, the user is offered a fresh default document.
func resolveScaffoldDocument(cfg *config.Config) (string, error) {
	path, err := cfg.ResolveDocument(scaffoldOutput)
	if err == nil {
		return path, nil
	}
	resolveErr := err

	fresh := config.DefaultDocument()
	create := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("No metadata document found. Create %s?", fresh),
		Default: true,
	}
	if err := survey.AskOne(prompt, &create); err != nil {
		return "", err
	}
	if !create {
		return "", resolveErr
	}
	return fresh, nil
}

// loadDocument reads an existing document, or starts an empty one when the
// path does not exist yet.
func loadDocument(path string) (map[string]interface{}, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	doc, err := metadata.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// appendMetadataEntry appends entry to the document's metadataMap section,
// creating the section when absent.
func appendMetadataEntry(doc map[string]interface{}, entry map[string]interface{}) error {
	raw, ok := doc[metadata.ConfigKeyMetadataMap]
	if !ok || raw == nil {
		doc[metadata.ConfigKeyMetadataMap] = []interface{}{entry}
		return nil
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("document has a malformed %s section", metadata.ConfigKeyMetadataMap)
	}
	doc[metadata.ConfigKeyMetadataMap] = append(entries, entry)
	return nil
}

// writeDocument serializes doc in the format implied by the file extension.
func writeDocument(path string, doc map[string]interface{}) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
