package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// OpenBabel invokes the obabel binary to convert a protonated .pqr file
// into the .pdbqt docking format.
type OpenBabel struct {
	bin    string
	logger logging.Logger
}

// NewOpenBabel builds a conversion wrapper from the tools config.
func NewOpenBabel(cfg config.ToolsConfig, logger logging.Logger) *OpenBabel {
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenBabel{
		bin:    cfg.OpenBabelBin,
		logger: logger.Named("tools.obabel"),
	}
}

// Convert runs obabel on inputPQR and writes the .pdbqt result into
// outputDir. When outputDir is empty the output lands next to the input.
// The input's existence is checked before any subprocess starts.
func (o *OpenBabel) Convert(ctx context.Context, inputPQR string, outputDir string) (string, error) {
	if _, err := os.Stat(inputPQR); err != nil {
		return "", errors.Newf(errors.CodePrepInputNotFound,
			"input file not found: %s", inputPQR)
	}

	if outputDir == "" {
		outputDir = filepath.Dir(inputPQR)
	}
	outputPath := filepath.Join(outputDir, replaceExt(inputPQR, ".pdbqt"))

	args := []string{"-ipqr", inputPQR, "-opdbqt", "-O", outputPath}

	o.logger.Info("running obabel",
		logging.String("input", inputPQR),
		logging.String("output", outputPath))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			return "", errors.Newf(errors.CodePrepToolNotFound,
				"obabel binary %q not found in PATH", o.bin)
		}
		return "", errors.Wrap(err, errors.CodePrepConversionFailed,
			fmt.Sprintf("obabel failed for %s: %s", inputPQR, strings.TrimSpace(stderr.String())))
	}

	o.logger.Info("conversion complete", logging.String("output", outputPath))
	return outputPath, nil
}
