package cmd

import (
	"github.com/spf13/cobra"

	"pharmacy-dashboard/internal/api"
)

func newMetadataCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "metadata",
		Aliases: []string{"meta"},
		Short:   "List pharmacies, medications and the available date range",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadata(cmd, opts)
		},
	}
}

func runMetadata(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := opts.initializeClient(cmd)
	if err != nil {
		return err
	}

	var meta *api.Metadata
	err = rt.withSpinner(cmd, "Cargando metadatos", func() error {
		meta, err = rt.client.Metadata(cmd.Context())
		return err
	})
	if err != nil {
		rt.out.PrintError(err)
		return err
	}

	return rt.out.PrintMetadata(meta)
}
