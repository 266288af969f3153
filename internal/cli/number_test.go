package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eng-Moka/parcelnum/internal/gpkg"
)

func TestNumberCommand_LeftToRight(t *testing.T) {
	path := newTestWorkspace(t)

	out, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "num", "Left to Right")
	require.NoError(t, err)
	assert.Contains(t, out, "Numbered 4 of 4 matched features")

	got := readNumbers(t, path)
	want := map[string]int64{"B": 1, "D": 2, "A": 3, "C": 4}
	for id, n := range want {
		require.True(t, got[id].Valid, "parcel %s not numbered", id)
		assert.Equal(t, n, got[id].Int64, "parcel %s", id)
	}
}

func TestNumberCommand_UpToDownStartsAtTen(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "10", "num", "Up to Down")
	require.NoError(t, err)

	got := readNumbers(t, path)
	want := map[string]int64{"C": 10, "D": 11, "A": 12, "B": 13}
	for id, n := range want {
		assert.Equal(t, n, got[id].Int64, "parcel %s", id)
	}
}

func TestNumberCommand_WhereSelection(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "num", "Left to Right",
		"--where", "block_no = 2")
	require.NoError(t, err)

	got := readNumbers(t, path)
	assert.False(t, got["A"].Valid, "A is outside the selection")
	assert.False(t, got["B"].Valid, "B is outside the selection")
	assert.Equal(t, int64(1), got["D"].Int64)
	assert.Equal(t, int64(2), got["C"].Int64)
}

func TestNumberCommand_IDSelection(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "5", "num", "Right to Left",
		"--ids", "A,B")
	require.NoError(t, err)

	got := readNumbers(t, path)
	assert.Equal(t, int64(5), got["A"].Int64)
	assert.Equal(t, int64(6), got["B"].Int64)
	assert.False(t, got["C"].Valid)
	assert.False(t, got["D"].Valid)
}

func TestNumberCommand_DryRun(t *testing.T) {
	path := newTestWorkspace(t)

	out, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "num", "Left to Right",
		"--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "B -> 1")

	got := readNumbers(t, path)
	for id, n := range got {
		assert.False(t, n.Valid, "parcel %s must stay unnumbered on dry run", id)
	}
}

func TestNumberCommand_JSONOutput(t *testing.T) {
	path := newTestWorkspace(t)

	out, err := execRoot(t,
		"number", "--workspace", path, "--format", "json",
		"Parcels", "parcel_id", "1", "num", "Left to Right")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunToken)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result NumberResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "Parcels", result.Layer)
	assert.Equal(t, 4, result.Selected)
	require.NotNil(t, result.Write)
	assert.Equal(t, 4, result.Write.Updated)
}

func TestNumberCommand_JSONErrorEnvelope(t *testing.T) {
	path := newTestWorkspace(t)

	out, err := execRoot(t,
		"number", "--workspace", path, "--format", "json",
		"Roads", "parcel_id", "1", "num", "Left to Right")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(gpkg.CodeLayerNotFound), resp.Error.Code)
	assert.Equal(t, "failed to resolve layer", resp.Error.Message)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestNumberCommand_JSONErrorEnvelope_InvalidDirection(t *testing.T) {
	path := newTestWorkspace(t)

	out, err := execRoot(t,
		"number", "--workspace", path, "--format", "json",
		"Parcels", "parcel_id", "1", "num", "Sideways")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadInput, resp.Error.Code)
	assert.Equal(t, "invalid direction", resp.Error.Message)
}

func TestNumberCommand_InvalidStart(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "abc", "num", "Left to Right")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid integer")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	got := readNumbers(t, path)
	for id, n := range got {
		assert.False(t, n.Valid, "parcel %s must stay untouched", id)
	}
}

func TestNumberCommand_InvalidDirection(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "num", "Sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown direction")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNumberCommand_MissingNumberingField(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "nope", "Left to Right")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numbering field")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNumberCommand_UnsupportedFieldType(t *testing.T) {
	path := newTestWorkspace(t)

	// notes is a BLOB column, outside the supported field kinds.
	_, err := execRoot(t,
		"number", "--workspace", path, "Parcels", "parcel_id", "1", "notes", "Left to Right")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid field type")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNumberCommand_UnknownLayer(t *testing.T) {
	path := newTestWorkspace(t)

	_, err := execRoot(t,
		"number", "--workspace", path, "Roads", "parcel_id", "1", "num", "Left to Right")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve layer")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNumberCommand_NoWorkspace(t *testing.T) {
	_, err := execRoot(t,
		"number", "Parcels", "parcel_id", "1", "num", "Left to Right")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workspace")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNumberCommand_WrongArgCount(t *testing.T) {
	_, err := execRoot(t, "number", "Parcels", "parcel_id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 5 arg")
}

func TestNumberCommand_Idempotent(t *testing.T) {
	path := newTestWorkspace(t)

	for i := 0; i < 2; i++ {
		_, err := execRoot(t,
			"number", "--workspace", path, "Parcels", "parcel_id", "1", "num", "Left to Right")
		require.NoError(t, err, "run %d", i)
	}

	got := readNumbers(t, path)
	want := map[string]int64{"B": 1, "D": 2, "A": 3, "C": 4}
	for id, n := range want {
		assert.Equal(t, n, got[id].Int64, "parcel %s", id)
	}
}
