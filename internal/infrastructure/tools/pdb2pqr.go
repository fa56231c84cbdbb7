// Package tools wraps the external scientific binaries the preparation
// pipeline shells out to: pdb2pqr for protonation and Open Babel for
// format conversion. Both are treated as black boxes; the wrappers only
// assemble arguments, run the process, and surface its exit status.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// PDB2PQR invokes the pdb2pqr binary to assign protonation states at a
// target pH, producing a .pqr file from a .pdb input.
type PDB2PQR struct {
	bin             string
	forceField      string
	titrationMethod string
	logger          logging.Logger
}

// NewPDB2PQR builds a protonation wrapper from the tools config.
func NewPDB2PQR(cfg config.ToolsConfig, logger logging.Logger) *PDB2PQR {
	if logger == nil {
		logger = logging.Default()
	}
	return &PDB2PQR{
		bin:             cfg.PDB2PQRBin,
		forceField:      cfg.ForceField,
		titrationMethod: cfg.TitrationMethod,
		logger:          logger.Named("tools.pdb2pqr"),
	}
}

// Protonate runs pdb2pqr on inputFile at the given pH and writes the
// resulting .pqr file into outputDir, named after the input's base name.
// The input file's existence is verified before any subprocess is started;
// a missing input fails with a not-found error and no process runs. A
// non-zero exit from pdb2pqr is surfaced as a protonation failure carrying
// the tool's stderr.
func (p *PDB2PQR) Protonate(ctx context.Context, inputFile string, ph float64, outputDir string) (string, error) {
	if _, err := os.Stat(inputFile); err != nil {
		return "", errors.Newf(errors.CodePrepInputNotFound,
			"input file not found: %s", inputFile)
	}

	outputPath := filepath.Join(outputDir, replaceExt(inputFile, ".pqr"))

	args := []string{
		"--ff=" + p.forceField,
		"--titration-state-method", p.titrationMethod,
		"--with-ph", strconv.FormatFloat(ph, 'f', -1, 64),
		inputFile,
		outputPath,
	}

	p.logger.Info("running pdb2pqr",
		logging.String("input", inputFile),
		logging.String("output", outputPath),
		logging.Float64("ph", ph))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			return "", errors.Newf(errors.CodePrepToolNotFound,
				"pdb2pqr binary %q not found in PATH", p.bin)
		}
		return "", errors.Wrap(err, errors.CodePrepProtonationFailed,
			fmt.Sprintf("pdb2pqr failed for %s: %s", inputFile, strings.TrimSpace(stderr.String())))
	}

	p.logger.Info("protonation complete", logging.String("output", outputPath))
	return outputPath, nil
}

// replaceExt returns the base name of path with its extension replaced.
func replaceExt(path, newExt string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + newExt
}
