package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Eng-Moka/parcelnum/internal/gpkg"
	"github.com/Eng-Moka/parcelnum/internal/parcel"
)

// NumberOptions holds flags for the number command.
type NumberOptions struct {
	*RootOptions
	Where  string
	IDs    []string
	DryRun bool
}

// NumberResult is the payload reported after a numbering run.
type NumberResult struct {
	Layer       string            `json:"layer"`
	Field       string            `json:"field"`
	Direction   string            `json:"direction"`
	Start       int               `json:"start"`
	Selected    int               `json:"selected"`
	Assignments []Assignment      `json:"assignments,omitempty"`
	DryRun      bool              `json:"dry_run,omitempty"`
	Write       *gpkg.WriteReport `json:"write,omitempty"`
}

// Assignment is one feature's assigned number, in numbering order.
type Assignment struct {
	Key       parcel.Key `json:"key"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Numbering int        `json:"numbering"`
}

// NewNumberCommand creates the number command.
func NewNumberCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NumberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "number <layer> <id-field> <start> <numbering-field> <direction>",
		Short: "Assign sequential numbers to selected parcels",
		Long: `Assign sequential numbers to the selected parcels of a feature layer,
ordered by centroid position.

Direction is one of: "Left to Right", "Right to Left", "Up to Down",
"Down to Up". The selection defaults to every feature in the layer and can
be narrowed with --where or --ids.

Example:
  parcelnum number --workspace city.gpkg Parcels parcel_id 1 num "Left to Right"
  parcelnum number --workspace city.gpkg Parcels parcel_id 100 num "Up to Down" --where "block_no = 2"`,
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNumber(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "SQL predicate narrowing the selection")
	cmd.Flags().StringSliceVar(&opts.IDs, "ids", nil, "explicit identifier values narrowing the selection")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "sort and number but do not write")

	return cmd
}

func runNumber(opts *NumberOptions, args []string, cmd *cobra.Command) error {
	layerName, idFieldName, startArg, numberingFieldName, directionArg := args[0], args[1], args[2], args[3], args[4]
	formatter := newFormatter(opts.RootOptions, cmd)

	axis, ascending, err := parcel.ParseDirection(directionArg)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeBadInput, "invalid direction", err)
	}

	start, err := strconv.Atoi(startArg)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeBadInput,
			fmt.Sprintf("please enter a valid integer starting number: %q", startArg), nil)
	}

	path, err := workspacePath(opts.RootOptions)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeNoWorkspace, err.Error(), nil)
	}

	runToken := uuid.Must(uuid.NewV7()).String()
	log := slog.With("run_token", runToken, "layer", layerName)

	store, err := gpkg.Open(path)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeNoWorkspace, "failed to open workspace", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing workspace", "error", closeErr)
		}
	}()

	ctx := cmd.Context()

	layer, err := store.Layer(ctx, layerName)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric, "failed to resolve layer", err)
	}

	idField, err := store.Field(ctx, layer, idFieldName)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric,
			"failed to resolve unique identifier field", err)
	}

	numberingField, err := store.Field(ctx, layer, numberingFieldName)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric,
			"failed to resolve numbering field", err)
	}
	if !numberingField.Kind.Writable() {
		return outputError(formatter, ExitCommandError, string(gpkg.CodeFieldKindUnsupported),
			fmt.Sprintf("invalid field type %q for numbering field %q",
				numberingField.Declared, numberingField.Name), nil)
	}

	sel, err := buildSelection(opts)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeBadInput, "invalid selection", err)
	}

	features, err := store.SelectedFeatures(ctx, layer, idField, sel)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric,
			"failed to read selected features", err)
	}
	log.Debug("selection read", "features", features.Len())
	formatter.VerboseLog("run %s: %d features selected from layer %q", runToken, features.Len(), layer.Name)

	numbered := parcel.Number(features, axis, ascending, start)

	result := NumberResult{
		Layer:     layer.Name,
		Field:     numberingField.Name,
		Direction: directionArg,
		Start:     start,
		Selected:  numbered.Len(),
		DryRun:    opts.DryRun,
	}
	if opts.DryRun || opts.Verbose {
		for _, f := range numbered.Features() {
			result.Assignments = append(result.Assignments, Assignment{
				Key: f.Key, X: f.X, Y: f.Y, Numbering: f.Numbering,
			})
		}
	}

	if opts.DryRun {
		log.Info("dry run, skipping write", "features", numbered.Len())
		return outputNumberResult(formatter, result, runToken)
	}

	report, err := store.UpdateNumbering(ctx, layer, idField, numberingField, numbered)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeWriteFailed,
			"write step aborted before any update", err)
	}
	result.Write = &report
	log.Info("numbering written",
		"status", report.Status, "matched", report.Matched, "updated", report.Updated,
		"failures", len(report.Failures))

	if outErr := outputNumberResult(formatter, result, runToken); outErr != nil {
		return outErr
	}

	if report.Failed() {
		return NewExitError(ExitFailure, fmt.Sprintf(
			"numbering %s: %d of %d updates failed", report.Status, len(report.Failures), report.Matched))
	}
	return nil
}

// buildSelection converts the --where / --ids flags into a store selection.
func buildSelection(opts *NumberOptions) (gpkg.Selection, error) {
	sel := gpkg.Selection{Where: opts.Where}
	for _, raw := range opts.IDs {
		key, err := parcel.KeyOf(strings.TrimSpace(raw))
		if err != nil {
			return gpkg.Selection{}, err
		}
		sel.Keys = append(sel.Keys, key)
	}
	return sel, nil
}

func outputNumberResult(f *OutputFormatter, result NumberResult, runToken string) error {
	if f.Format == "json" {
		return f.Success(result, runToken)
	}

	var b strings.Builder
	if result.DryRun {
		fmt.Fprintf(&b, "Dry run: %d features of layer %q would be numbered into %q (%s, start %d)",
			result.Selected, result.Layer, result.Field, result.Direction, result.Start)
	} else {
		fmt.Fprintf(&b, "Numbered %d of %d matched features in layer %q, field %q (%s, start %d)",
			result.Write.Updated, result.Write.Matched, result.Layer, result.Field,
			result.Direction, result.Start)
	}
	for _, a := range result.Assignments {
		fmt.Fprintf(&b, "\n  %s -> %d", a.Key, a.Numbering)
	}
	if result.Write != nil {
		for _, fail := range result.Write.Failures {
			fmt.Fprintf(&b, "\n  failed %s: %s", fail.Key, fail.Reason)
		}
	}
	return f.Success(b.String(), runToken)
}
