package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/application/preparation"
	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
	"github.com/turtacn/dockprep/internal/infrastructure/tools"
	"github.com/turtacn/dockprep/pkg/errors"
)

func newPrepareCommand(opts *rootOptions) *cobra.Command {
	var (
		ph       float64
		fetchRaw bool
	)

	cmd := &cobra.Command{
		Use:   "prepare <pdb-id | file | directory>...",
		Short: "Run the protonate and convert pipeline",
		Long: `Prepare runs pdb2pqr followed by obabel on each input, producing a
.pdbqt file per structure.

Each argument may be a 4-character PDB identifier (downloaded first when
--download is set), a local .pdb file, or a directory whose .pdb files
are all processed. The pipeline is strictly sequential per input; the
first failure aborts the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.newLogger(cfg)
			if err != nil {
				return err
			}

			downloader := rcsb.NewDownloader(cfg.RCSB, logger)
			protonator := tools.NewPDB2PQR(cfg.Tools, logger)
			converter := tools.NewOpenBabel(cfg.Tools, logger)
			svc := preparation.NewService(downloader, protonator, converter,
				nil, cfg.Tools.WorkDir, logger, preparation.Options{})

			if ph == 0 {
				ph = cfg.Tools.DefaultPH
			}

			inputs, err := resolveInputs(cmd, downloader, args, fetchRaw, cfg.Tools.WorkDir)
			if err != nil {
				return err
			}

			for _, input := range inputs {
				out, err := svc.Prepare(cmd.Context(), input, ph, cfg.Tools.WorkDir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&ph, "ph", 0, "target pH for protonation (defaults to the configured value)")
	cmd.Flags().BoolVar(&fetchRaw, "download", false, "treat identifier arguments as PDB IDs and download them first")
	return cmd
}

// resolveInputs expands command arguments into local .pdb file paths.
func resolveInputs(cmd *cobra.Command, downloader *rcsb.Downloader, args []string, fetchRaw bool, workDir string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, statErr := os.Stat(arg)
		switch {
		case statErr == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdb") {
					continue
				}
				inputs = append(inputs, filepath.Join(arg, entry.Name()))
			}
		case statErr == nil:
			inputs = append(inputs, arg)
		case fetchRaw:
			id, err := structure.ParseID(arg)
			if err != nil {
				return nil, err
			}
			path, err := downloader.Download(cmd.Context(), id, workDir)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, path)
		default:
			return nil, errors.Newf(errors.CodePrepInputNotFound,
				"input file not found: %s", arg)
		}
	}
	return inputs, nil
}
