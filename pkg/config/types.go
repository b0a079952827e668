package config

import "encoding/json"

// Document is the wire format for a data estate: a JSON object with a
// required pipelines array plus optional datasources, clusters, and version.
// Unknown fields are ignored for forward compatibility.
type Document struct {
	Version     string       `json:"version,omitempty"`
	Pipelines   []Pipeline   `json:"pipelines"`
	DataSources []DataSource `json:"datasources,omitempty"`
	Clusters    []Cluster    `json:"clusters,omitempty"`
}

// Pipeline describes one unit of scheduled work in the estate. Its inputs and
// outputs reference data sources by name; upstream_pipelines references other
// pipelines directly. Duration and Cost are only consulted by the path
// analyzer and may be absent.
type Pipeline struct {
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	InputSources      []string          `json:"input_sources,omitempty"`
	OutputSources     []string          `json:"output_sources,omitempty"`
	UpstreamPipelines []string          `json:"upstream_pipelines,omitempty"`
	Schedule          string            `json:"schedule,omitempty"`
	Owner             string            `json:"owner,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	Cluster           string            `json:"cluster,omitempty"`
	Group             string            `json:"group,omitempty"`
	Links             map[string]string `json:"links,omitempty"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
	Duration          *float64          `json:"duration,omitempty"`
	Cost              *float64          `json:"cost,omitempty"`
}

// DataSource describes a dataset (table, topic, bucket, ...) that pipelines
// read or write. Attributes optionally describe its column tree.
type DataSource struct {
	Name       string            `json:"name"`
	Type       string            `json:"type,omitempty"`
	Owner      string            `json:"owner,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Cluster    string            `json:"cluster,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
	Links      map[string]string `json:"links,omitempty"`
	Attributes []Attribute       `json:"attributes,omitempty"`
}

// Attribute is one node of a data source's column tree. An attribute with
// nested children is structural: it has no lineage edges of its own, but its
// descendants may. From holds zero or more `datasource::path::to::field`
// references to attributes this one is derived from.
type Attribute struct {
	Name       string      `json:"name"`
	From       FromRefs    `json:"from,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Cluster is a logical grouping of pipelines and data sources. Parent chains
// form a tree; Load rejects documents whose parent chains contain a cycle.
type Cluster struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parent      string `json:"parent,omitempty"`
}

// FromRefs holds attribute lineage references. The wire format accepts either
// a single string or an array of strings; both decode to a slice.
type FromRefs []string

// UnmarshalJSON decodes either a bare string or a string array.
func (f *FromRefs) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FromRefs{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = FromRefs(many)
	return nil
}

// MarshalJSON emits a bare string for a single reference, preserving the
// compact wire form, and an array otherwise.
func (f FromRefs) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}
	return json.Marshal([]string(f))
}
