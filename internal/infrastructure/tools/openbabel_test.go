package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

func TestOpenBabel_Convert_Success(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	// $2 is the input path, $5 the output path.
	bin := fakeTool(t, dir, "obabel", argsFile, `cp "$2" "$5"`)

	input := filepath.Join(dir, "6LU7.pqr")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	o := NewOpenBabel(testToolsConfig("pdb2pqr", bin), logging.NewNopLogger())
	out, err := o.Convert(context.Background(), input, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "6LU7.pdbqt"), out)
	assert.FileExists(t, out)

	args, readErr := os.ReadFile(argsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "-ipqr "+input)
	assert.Contains(t, string(args), "-opdbqt -O "+out)
}

func TestOpenBabel_Convert_OutputDirDefaultsToInputDir(t *testing.T) {
	toolDir := t.TempDir()
	inputDir := t.TempDir()
	argsFile := filepath.Join(toolDir, "args.txt")
	bin := fakeTool(t, toolDir, "obabel", argsFile, `cp "$2" "$5"`)

	input := filepath.Join(inputDir, "4HHB.pqr")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	o := NewOpenBabel(testToolsConfig("pdb2pqr", bin), logging.NewNopLogger())
	out, err := o.Convert(context.Background(), input, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inputDir, "4HHB.pdbqt"), out)
}

func TestOpenBabel_Convert_MissingInputFailsBeforeSubprocess(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := fakeTool(t, dir, "obabel", argsFile, "true")

	o := NewOpenBabel(testToolsConfig("pdb2pqr", bin), logging.NewNopLogger())
	_, err := o.Convert(context.Background(), filepath.Join(dir, "missing.pqr"), dir)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepInputNotFound))
	assert.NoFileExists(t, argsFile)
}

func TestOpenBabel_Convert_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := fakeTool(t, dir, "obabel", argsFile, "echo 'cannot read pqr' >&2; exit 2")

	input := filepath.Join(dir, "4HHB.pqr")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	o := NewOpenBabel(testToolsConfig("pdb2pqr", bin), logging.NewNopLogger())
	_, err := o.Convert(context.Background(), input, dir)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepConversionFailed))
	assert.Contains(t, err.Error(), "cannot read pqr")
}
