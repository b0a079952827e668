// Package config parses and validates the declarative estate document.
//
// The wire format is JSON with a required top-level pipelines array and
// optional datasources, clusters, and version fields. Validation runs at load
// time and rejects the whole document on structural problems - a missing
// pipelines array, an unnamed pipeline, duplicate names, a pipeline and a
// data source sharing a name, or a cluster parent cycle. No partial document
// is ever returned alongside an error.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
)

// Load reads and validates an estate document from a file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes and validates an estate document from r.
// Use Parse for in-memory data or Load for files.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigDecode, err, "decode document")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes and validates an estate document from JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigDecode, err, "decode document")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants of a decoded document:
//
//  1. The pipelines array is present (an empty array is allowed, a missing
//     one is not).
//  2. Every pipeline, data source, and cluster has a name.
//  3. Names are unique within each namespace.
//  4. No pipeline shares a name with a data source - bare names in edges and
//     queries would otherwise be ambiguous.
//  5. Cluster parent chains contain no cycles and reference known clusters
//     only by name (unknown parents are tolerated: the tree may be partial).
//
// Returns a CONFIG_INVALID error naming the first violation found.
func Validate(doc *Document) error {
	if doc.Pipelines == nil {
		return errors.New(errors.ErrCodeConfigInvalid, "document has no pipelines array")
	}

	pipelineNames := make(map[string]bool, len(doc.Pipelines))
	for i, p := range doc.Pipelines {
		if p.Name == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "pipeline at index %d has no name", i)
		}
		if pipelineNames[p.Name] {
			return errors.New(errors.ErrCodeConfigInvalid, "duplicate pipeline name %q", p.Name)
		}
		pipelineNames[p.Name] = true
	}

	sourceNames := make(map[string]bool, len(doc.DataSources))
	for i, ds := range doc.DataSources {
		if ds.Name == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "datasource at index %d has no name", i)
		}
		if sourceNames[ds.Name] {
			return errors.New(errors.ErrCodeConfigInvalid, "duplicate datasource name %q", ds.Name)
		}
		if pipelineNames[ds.Name] {
			return errors.New(errors.ErrCodeConfigInvalid, "name %q is used by both a pipeline and a datasource", ds.Name)
		}
		sourceNames[ds.Name] = true
	}

	parents := make(map[string]string, len(doc.Clusters))
	for i, c := range doc.Clusters {
		if c.Name == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "cluster at index %d has no name", i)
		}
		if _, dup := parents[c.Name]; dup {
			return errors.New(errors.ErrCodeConfigInvalid, "duplicate cluster name %q", c.Name)
		}
		parents[c.Name] = c.Parent
	}
	return validateClusterTree(parents)
}

// validateClusterTree walks every parent chain with a visited guard and
// rejects cycles. Chains ending at an undeclared parent are fine.
func validateClusterTree(parents map[string]string) error {
	for name := range parents {
		seen := map[string]bool{}
		for cur := name; cur != ""; {
			if seen[cur] {
				return errors.New(errors.ErrCodeConfigInvalid, "cluster parent cycle involving %q", cur)
			}
			seen[cur] = true
			next, ok := parents[cur]
			if !ok {
				break
			}
			cur = next
		}
	}
	return nil
}

// PipelineByName returns the pipeline with the given name, or nil.
func (d *Document) PipelineByName(name string) *Pipeline {
	for i := range d.Pipelines {
		if d.Pipelines[i].Name == name {
			return &d.Pipelines[i]
		}
	}
	return nil
}

// DataSourceByName returns the declared data source with the given name, or nil.
func (d *Document) DataSourceByName(name string) *DataSource {
	for i := range d.DataSources {
		if d.DataSources[i].Name == name {
			return &d.DataSources[i]
		}
	}
	return nil
}
