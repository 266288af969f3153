package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Eng-Moka/parcelnum/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Workspace string // path to the GeoPackage workspace
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the parcelnum CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "parcelnum",
		Short: "Sort and number parcels by centroid position",
		Long: `parcelnum assigns sequential numbers to selected parcels in a GeoPackage
feature layer, ordered by the x or y coordinate of each parcel's centroid,
sweeping Left to Right, Right to Left, Up to Down or Down to Up.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Fall back to configuration for anything not given as a flag.
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if opts.Workspace == "" {
				opts.Workspace = cfg.Workspace.Path
			}
			if !cmd.Root().PersistentFlags().Changed("format") && cfg.Output.Format != "" {
				opts.Format = cfg.Output.Format
			}

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Workspace, "workspace", "", "path to the GeoPackage workspace (.gpkg)")

	// Add subcommands
	cmd.AddCommand(NewNumberCommand(opts))
	cmd.AddCommand(NewLayersCommand(opts))
	cmd.AddCommand(NewFieldsCommand(opts))

	return cmd
}

// configureLogging installs the default slog handler.
// Logs go to stderr so they never corrupt command output.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the output formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// workspacePath returns the configured workspace path. Commands report the
// error through outputError so it reaches the JSON envelope.
func workspacePath(opts *RootOptions) (string, error) {
	if opts.Workspace == "" {
		return "", errors.New(
			"no workspace given: use --workspace or set workspace.path in the configuration")
	}
	return opts.Workspace, nil
}
