package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nndss-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/nndss-dashboard/internal/config"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
)

func newExportCmd(opts *rootOptions, cfg *config.Config) *cobra.Command {
	var (
		sel  dashboard.Selection
		path string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard for a selection to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts, cfg)
			if err != nil {
				return err
			}
			vm, err := svc.Render(cmd.Context(), sel)
			if err != nil {
				return err
			}
			f, err := xlsx.Export(vm)
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // in-memory workbook

			if err := f.SaveAs(path); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s)\n", path, vm.Selection.Disease, vm.Selection.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&sel.Disease, "disease", "", "disease label (default the first disease)")
	cmd.Flags().StringVar(&sel.Location, "location", "", "state (default the first state)")
	cmd.Flags().StringVarP(&path, "output", "o", "nndss-dashboard.xlsx", "output file")
	return cmd
}
