package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// newLineageCmd creates the lineage command, which walks the transitive
// closure of one node and prints it grouped by hop distance.
func newLineageCmd() *cobra.Command {
	var (
		direction string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "lineage <node>",
		Short: "Show the transitive closure of a pipeline or data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := graph.ParseDirection(direction)
			if err != nil {
				return err
			}

			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			closure, err := e.Lineage(args[0], dir)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(map[string]any{
					"node":      args[0],
					"direction": dir,
					"count":     len(closure),
					"lineage":   closure,
				})
			}

			if len(closure) == 0 {
				printInfo("%s has no %s lineage", args[0], dir)
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%s lineage of %s", dir, args[0])))
			depth := 0
			for _, entry := range closure {
				if entry.Depth != depth {
					depth = entry.Depth
					printDetail("depth %d", depth)
				}
				kind := "datasource"
				if n, ok := e.Model().Node(entry.ID); ok {
					kind = n.Kind.String()
				}
				fmt.Println("    " + nodeStyle(kind).Render(entry.ID) + " " + StyleDim.Render(kind))
			}
			printNewline()
			printInfo("%d nodes in closure", len(closure))
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", string(graph.Downstream), "walk direction: downstream (default), upstream")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
