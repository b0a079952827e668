package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDataSourceCmd creates the datasource command, which rolls attribute
// lineage up to data-source granularity: which sources feed this one, and
// which it feeds, through column-level mappings.
func newDataSourceCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "datasource <name>",
		Short: "Show the attribute-level lineage rollup of a data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			lin, err := e.DataSourceLineage(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(lin)
			}

			fmt.Println(StyleTitle.Render("Data source lineage of " + args[0]))
			printClosure("upstream", lin.Upstream)
			printClosure("downstream", lin.Downstream)
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
