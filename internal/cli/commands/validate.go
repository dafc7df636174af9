package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goharsahi/mezzio-hal/internal/cli/config"
	"github.com/goharsahi/mezzio-hal/internal/cli/ui"
	"github.com/goharsahi/mezzio-hal/metadata"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a metadata map document",
		Long: `Validate a metadata map document.

Compiles the document with the standard map builder, applying the same
checks the library performs at application startup. The first malformed
entry stops validation and is reported with its exact cause.

If no file is given, the document configured in halmeta.yaml is used,
falling back to hal.yaml, hal.yml, or hal.json in the current directory.`,
		Example: `  # Validate the default document
  halmeta validate

  # Validate a specific document
  halmeta validate config/hal.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}
	path, err := cfg.ResolveDocument(explicit)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.DocumentNotFoundError(cfg.NoColor))
		return err
	}

	m, err := buildMapFromDocument(path, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s is valid", path), cfg.NoColor)

	noun := "classes"
	if m.Len() == 1 {
		noun = "class"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d metadata %s compiled\n", m.Len(), noun)
	return nil
}

// buildMapFromDocument loads a metadata document and compiles it the way an
// application would at startup. Verbose mode attaches a development logger
// so the builder's per-entry events are visible.
func buildMapFromDocument(path string, verbose bool) (*metadata.Map, error) {
	document, err := metadata.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	ctn := metadata.NewServiceContainer()
	ctn.Set(metadata.ConfigService, document)

	var opts []metadata.MapBuilderOption
	if verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			opts = append(opts, metadata.WithLogger(logger))
		}
	}

	return metadata.NewMapBuilder(opts...).Build(ctn)
}
