package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
)

func newDownloadCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <pdb-id>...",
		Short: "Download raw structure files",
		Long: `Download fetches the raw .pdb file for each identifier into the
output directory. A failed download aborts the run.`,
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
			for _, raw := range args {
				id, err := structure.ParseID(raw)
				if err != nil {
					return err
				}
				path, err := downloader.Download(cmd.Context(), id, cfg.Tools.WorkDir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}
