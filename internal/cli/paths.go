package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/analysis"
)

// newPathsCmd creates the paths command, which finds the heaviest chain
// through the estate weighted by pipeline duration (default) or cost.
// Pipelines that do not declare the weight count as zero.
func newPathsCmd() *cobra.Command {
	var (
		by     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Find the critical (duration) or costliest path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != string(analysis.WeightDuration) && by != string(analysis.WeightCost) {
				return fmt.Errorf("invalid weight: %s (must be %q or %q)",
					by, analysis.WeightDuration, analysis.WeightCost)
			}

			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}

			var result *analysis.PathResult
			if by == string(analysis.WeightDuration) {
				result = e.CriticalPath()
			} else {
				result = e.CostliestPath()
			}

			if asJSON {
				return printJSON(result)
			}
			if result == nil {
				printInfo("No pipeline declares a %s; nothing to rank", by)
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Heaviest path by %s", by)))
			printDetail("%d of %d pipelines declare a %s", result.Covered, result.PipelineCount, by)
			printNewline()

			for _, node := range result.Path {
				line := "  " + stylePipeline.Render(node.Name)
				switch by {
				case string(analysis.WeightDuration):
					line += " " + StyleDim.Render(fmt.Sprintf("%.4g (starts at %.4g)", node.Duration, node.Start))
				case string(analysis.WeightCost):
					line += " " + StyleDim.Render(fmt.Sprintf("%.4g", node.Cost))
				}
				fmt.Println(line)
			}

			printNewline()
			printInfo("total duration %.4g, total cost %.4g", result.TotalDuration, result.TotalCost)
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().StringVar(&by, "by", string(analysis.WeightDuration), "path weight: duration (default), cost")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
