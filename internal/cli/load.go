package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/engine"
)

const fileFlag = "file"

// addFileFlag registers the estate configuration flag shared by every
// command that loads a document.
func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(fileFlag, "f", "estate.json", "path to the estate configuration")
}

// loadEngine reads, validates, and indexes the estate configuration named by
// the --file flag.
func loadEngine(cmd *cobra.Command) (*engine.Engine, error) {
	path, err := cmd.Flags().GetString(fileFlag)
	if err != nil {
		return nil, err
	}
	return loadEngineFrom(cmd.Context(), path)
}

func loadEngineFrom(ctx context.Context, path string) (*engine.Engine, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	e, err := engine.Load(path)
	if err != nil {
		return nil, err
	}

	doc := e.Document()
	prog.done(fmt.Sprintf("Loaded %d pipelines, %d data sources from %s",
		len(doc.Pipelines), len(doc.DataSources), path))
	logger.Debug("snapshot", "hash", e.SnapshotHash()[:12], "nodes", e.Model().NodeCount())
	return e, nil
}

// printJSON writes v to stdout as indented JSON. Used by the --json flag of
// the analysis commands so output can feed scripts and dashboards.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
