package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// newAttributesCmd creates the attributes command. Without arguments it
// lists every flattened attribute; with an attribute id (ds::path::to::field)
// it prints both column-level closures.
func newAttributesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "attributes [id]",
		Short: "List attributes or show one attribute's lineage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				nodes := e.Attributes()
				if asJSON {
					return printJSON(map[string]any{
						"count":      len(nodes),
						"attributes": nodes,
					})
				}
				for _, n := range nodes {
					line := "  " + StyleValue.Render(n.ID)
					if n.Structural {
						line += " " + StyleDim.Render("structural")
					}
					if !n.Declared {
						line += " " + StyleWarning.Render("undeclared")
					}
					fmt.Println(line)
				}
				printNewline()
				printInfo("%d attributes", len(nodes))
				return nil
			}

			lin, err := e.AttributeLineage(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(lin)
			}

			fmt.Println(StyleTitle.Render("Lineage of " + args[0]))
			printClosure("upstream", lin.Upstream)
			printClosure("downstream", lin.Downstream)
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

// printClosure prints one direction of a lineage rollup.
func printClosure(label string, entries []graph.LineageEntry) {
	printNewline()
	if len(entries) == 0 {
		printDetail("%s: none", label)
		return
	}
	printDetail("%s:", label)
	for _, entry := range entries {
		fmt.Printf("    %s %s\n", StyleValue.Render(entry.ID), StyleDim.Render(fmt.Sprintf("depth %d", entry.Depth)))
	}
}
