package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newCyclesCmd creates the cycles command, which reports circular pipeline
// dependencies. Groups are collapsed first, so intra-group loops (a group
// feeding itself) are not reported as cycles.
func newCyclesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Detect circular pipeline dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			cycles := e.DetectCycles()

			if asJSON {
				return printJSON(map[string]any{
					"count":  len(cycles),
					"cycles": cycles,
				})
			}

			if len(cycles) == 0 {
				printSuccess("No circular dependencies")
				return nil
			}

			printWarning("%d circular dependency region(s)", len(cycles))
			for i, cycle := range cycles {
				fmt.Printf("  %d. %s\n", i+1,
					StyleHighlight.Render(strings.Join(cycle, " "+iconArrow+" ")))
			}
			return fmt.Errorf("%d cycles found", len(cycles))
		},
	}

	addFileFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
