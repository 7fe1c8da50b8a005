package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/sowkit/internal/catalog"
)

var catalogFunction string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the service catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import services from a YAML or JSON document into the live catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		entries, err := catalog.DecodeEntries(data)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%s contains no usable services", args[0])
		}

		_, store, closeStore, err := openProvider(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		if store == nil {
			return fmt.Errorf("live catalog %s is unavailable", cfg.Catalog.Database)
		}

		res, err := store.Import(entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d inserted, %d updated, %d skipped\n",
			args[0], res.Inserted, res.Updated, res.Skipped)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the services used for pricing",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _, closeStore, err := openProvider(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		snap := provider.Snapshot(cmd.Context())
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tFUNCTION\tHOURS\tRATE")
		shown := 0
		for _, e := range snap.Entries {
			if catalogFunction != "" && !strings.EqualFold(e.PrimaryFunction, catalogFunction) {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s-%s\t%s\n",
				e.Key(), e.Name, e.PrimaryFunction, e.HoursLow, e.HoursHigh, e.DefaultRate)
			shown++
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d services (%s catalog)\n", shown, snap.Origin)
		return nil
	},
}

func init() {
	catalogListCmd.Flags().StringVarP(&catalogFunction, "function", "f", "", "Only list services for this function")
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
}
