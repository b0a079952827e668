package render

import (
	"strings"
	"testing"

	"github.com/mattlianje/pipeviz-sub000/pkg/config"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

func buildModel(t *testing.T, src string) *graph.Model {
	t.Helper()
	doc, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return graph.Build(doc)
}

const estate = `{
	"pipelines": [
		{"name": "user-enrichment", "input_sources": ["raw_users"], "output_sources": ["enriched_users"], "schedule": "@daily", "owner": "data-platform"}
	],
	"datasources": [
		{"name": "raw_users", "type": "postgres"}
	]
}`

func TestToDOT_NodesAndEdges(t *testing.T) {
	m := buildModel(t, estate)
	dot := ToDOT(m, Options{})

	for _, want := range []string{
		"digraph estate {",
		"rankdir=LR;",
		`"user-enrichment" [label="user-enrichment", shape=box`,
		`"raw_users" -> "user-enrichment";`,
		`"user-enrichment" -> "enriched_users";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_ImplicitSourcesDashed(t *testing.T) {
	m := buildModel(t, estate)
	dot := ToDOT(m, Options{})

	// enriched_users is never declared, so it renders dashed.
	if !strings.Contains(dot, `"enriched_users" [label="enriched_users", shape=ellipse, style="filled,dashed"`) {
		t.Errorf("auto-created source should be dashed:\n%s", dot)
	}
	// raw_users is declared, so it renders solid.
	if !strings.Contains(dot, `"raw_users" [label="raw_users", shape=ellipse, style=filled`) {
		t.Errorf("declared source should be solid:\n%s", dot)
	}
}

func TestToDOT_DetailedLabels(t *testing.T) {
	m := buildModel(t, estate)
	dot := ToDOT(m, Options{Detailed: true})

	for _, want := range []string{
		"schedule: @daily",
		"owner: data-platform",
		"type: postgres",
		"(auto-created)",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_QuotesSpecialNames(t *testing.T) {
	m := buildModel(t, `{"pipelines": [{"name": "etl \"v2\"", "input_sources": ["a b"]}]}`)
	dot := ToDOT(m, Options{})
	if !strings.Contains(dot, `"a b" -> "etl \"v2\"";`) {
		t.Errorf("names should be quoted and escaped:\n%s", dot)
	}
}
