package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/application/preparation"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <pdb-id>",
		Short: "Fetch scraped metadata for a structure",
		Long: `Fetch retrieves the RCSB detail page for a structure and prints the
scraped metadata as JSON. Metadata is best-effort: an unreachable page
yields an empty result rather than an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.newLogger(cfg)
			if err != nil {
				return err
			}

			client := rcsb.NewClient(cfg.RCSB, logger)
			svc := preparation.NewMetadataService(client, nil, nil, logger)

			meta, ok, err := svc.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no metadata available for %s", args[0])
			}

			encoded, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}
