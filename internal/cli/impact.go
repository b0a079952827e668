package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newImpactCmd creates the impact command, which computes the blast radius
// of a node or group: everything downstream that could be affected if it
// changes or fails.
func newImpactCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "impact <node-or-group>",
		Short: "Show the downstream blast radius of a node or group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			impact, err := e.BlastRadius(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(impact)
			}

			if impact == nil {
				printInfo("%s has no downstream impact", args[0])
				return nil
			}

			title := fmt.Sprintf("Blast radius of %s", impact.Source)
			if impact.IsGroup {
				title += fmt.Sprintf(" (group of %d)", impact.GroupSize)
			}
			fmt.Println(StyleTitle.Render(title))
			if impact.IsGroup {
				printDetail("members: %s", strings.Join(impact.Members, ", "))
			}
			printNewline()

			for _, group := range impact.Depths {
				printDetail("depth %d", group.Depth)
				for _, n := range group.Nodes {
					line := "    " + nodeStyle(n.Kind).Render(n.Name) + " " + StyleDim.Render(n.Kind)
					if n.Schedule != "" {
						line += " " + StyleDim.Render("@ "+n.Schedule)
					}
					fmt.Println(line)
				}
			}

			printNewline()
			printInfo("%d nodes affected, max depth %d", impact.TotalAffected, impact.MaxDepth)
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
