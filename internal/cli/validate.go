package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command, which loads a configuration
// and reports its shape. A document that fails validation exits non-zero
// with the offending entities named, so the command slots into CI.
func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an estate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}

			doc := e.Document()
			m := e.Model()

			implicit := 0
			for _, n := range m.Nodes() {
				if n.Implicit {
					implicit++
				}
			}

			printSuccess("Configuration is valid")
			printKeyValue("pipelines", fmt.Sprintf("%d", len(doc.Pipelines)))
			printKeyValue("data sources", fmt.Sprintf("%d declared, %d auto-created", len(doc.DataSources), implicit))
			printKeyValue("clusters", fmt.Sprintf("%d", len(doc.Clusters)))
			printKeyValue("edges", fmt.Sprintf("%d", len(m.Edges())))

			cycles := e.DetectCycles()
			if len(cycles) > 0 {
				printWarning("%d circular dependency region(s) detected; run `pipeviz cycles` for details", len(cycles))
				if strict {
					return fmt.Errorf("%d cycles found", len(cycles))
				}
			}
			return nil
		},
	}

	addFileFlag(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when cycles are present")
	return cmd
}
