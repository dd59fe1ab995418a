package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// platformsCmd lists every registered marketplace schema.
var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported marketplace platforms and their columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tPRICE FORMAT\tCOLUMNS")
		for _, id := range reg.IDs() {
			s, err := reg.Resolve(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Label, s.PriceFormat, strings.Join(s.MappedColumns(), ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
