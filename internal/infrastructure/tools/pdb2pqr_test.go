package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// fakeTool writes an executable shell script into dir and returns its path.
// The script records its arguments into argsFile before running body.
func fakeTool(t *testing.T, dir, name, argsFile, body string) string {
	t.Helper()
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\n" + body + "\n"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testToolsConfig(pdb2pqrBin, obabelBin string) config.ToolsConfig {
	return config.ToolsConfig{
		PDB2PQRBin:      pdb2pqrBin,
		OpenBabelBin:    obabelBin,
		ForceField:      "AMBER",
		TitrationMethod: "propka",
		DefaultPH:       7.4,
	}
}

func TestPDB2PQR_Protonate_Success(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	// $6 is the input path, $7 the output path.
	bin := fakeTool(t, dir, "pdb2pqr", argsFile, `cp "$6" "$7"`)

	input := filepath.Join(dir, "6LU7.pdb")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	p := NewPDB2PQR(testToolsConfig(bin, "obabel"), logging.NewNopLogger())
	out, err := p.Protonate(context.Background(), input, 7.4, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "6LU7.pqr"), out)
	assert.FileExists(t, out)

	args, readErr := os.ReadFile(argsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "--ff=AMBER")
	assert.Contains(t, string(args), "--titration-state-method propka")
	assert.Contains(t, string(args), "--with-ph 7.4")
}

func TestPDB2PQR_Protonate_MissingInputFailsBeforeSubprocess(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := fakeTool(t, dir, "pdb2pqr", argsFile, "true")

	p := NewPDB2PQR(testToolsConfig(bin, "obabel"), logging.NewNopLogger())
	_, err := p.Protonate(context.Background(), filepath.Join(dir, "missing.pdb"), 7.0, dir)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepInputNotFound))
	// The fake tool never ran, so no args were recorded.
	assert.NoFileExists(t, argsFile)
}

func TestPDB2PQR_Protonate_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := fakeTool(t, dir, "pdb2pqr", argsFile, "echo 'bad residue' >&2; exit 1")

	input := filepath.Join(dir, "4HHB.pdb")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	p := NewPDB2PQR(testToolsConfig(bin, "obabel"), logging.NewNopLogger())
	_, err := p.Protonate(context.Background(), input, 7.0, dir)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepProtonationFailed))
	assert.Contains(t, err.Error(), "bad residue")
}

func TestPDB2PQR_Protonate_BinaryNotFound(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "4HHB.pdb")
	require.NoError(t, os.WriteFile(input, []byte("ATOM\nEND\n"), 0o644))

	p := NewPDB2PQR(testToolsConfig("definitely-not-a-real-binary-name", "obabel"), logging.NewNopLogger())
	_, err := p.Protonate(context.Background(), input, 7.0, dir)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrepToolNotFound))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "6LU7.pqr", replaceExt("/data/raw/6LU7.pdb", ".pqr"))
	assert.Equal(t, "6LU7.pdbqt", replaceExt("6LU7.pqr", ".pdbqt"))
	assert.Equal(t, "noext.pqr", replaceExt("/tmp/noext", ".pqr"))
}
