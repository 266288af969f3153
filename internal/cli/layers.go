package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Eng-Moka/parcelnum/internal/gpkg"
)

// NewLayersCommand creates the layers command.
func NewLayersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layers",
		Short: "List feature layers in the workspace",
		Long: `List the feature layers registered in the GeoPackage workspace, with
their backing table, geometry type and spatial reference system.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayers(rootOpts, cmd)
		},
	}

	return cmd
}

func runLayers(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	path, err := workspacePath(opts)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeNoWorkspace, err.Error(), nil)
	}

	store, err := gpkg.Open(path)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeNoWorkspace, "failed to open workspace", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("error closing workspace", "error", closeErr)
		}
	}()

	layers, err := store.Layers(cmd.Context())
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric, "failed to list layers", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(layers, "")
	}

	if len(layers) == 0 {
		return formatter.Success("no feature layers in workspace", "")
	}
	var b strings.Builder
	for i, l := range layers {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (table %s, %s, srs %d)", l.Name, l.TableName, l.GeometryType, l.SRSID)
	}
	return formatter.Success(b.String(), "")
}
