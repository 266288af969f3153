package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Eng-Moka/parcelnum/internal/gpkg"
)

// FieldInfo augments a store field with whether it can hold numbering.
type FieldInfo struct {
	gpkg.Field
	NumberingTarget bool `json:"numbering_target"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields <layer>",
		Short: "List a layer's attribute fields",
		Long: `List the attribute fields of a feature layer with their declared types
and whether each field is accepted as a numbering target.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runFields(opts *RootOptions, layerName string, cmd *cobra.Command) error {
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

	ctx := cmd.Context()
	layer, err := store.Layer(ctx, layerName)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric, "failed to resolve layer", err)
	}

	fields, err := store.Fields(ctx, layer)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric, "failed to list fields", err)
	}

	infos := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		infos = append(infos, FieldInfo{Field: f, NumberingTarget: f.Kind.Writable()})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos, "")
	}

	var b strings.Builder
	for i, f := range infos {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := " "
		if f.NumberingTarget {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-20s %-12s %s", marker, f.Name, f.Declared, f.Kind)
	}
	return formatter.Success(b.String(), "")
}
