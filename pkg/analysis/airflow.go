package analysis

import (
	"sort"
	"strings"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// AirflowDAG is one scheduler DAG of a projected plan, listing the pipelines
// that map onto it.
type AirflowDAG struct {
	ID        string   `json:"id"`
	Pipelines []string `json:"pipelines"`
}

// AirflowWave is one wave of a plan re-expressed at DAG granularity.
type AirflowWave struct {
	Number      int          `json:"number"`
	DAGs        []AirflowDAG `json:"dags"`
	Parallelism int          `json:"parallelism"`
}

// AirflowEdge is a dependency between two scheduler DAGs.
type AirflowEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AirflowPlan is a backfill plan projected onto external-scheduler DAGs.
type AirflowPlan struct {
	TotalDAGs int           `json:"total_dags"`
	Waves     []AirflowWave `json:"waves"`
	Edges     []AirflowEdge `json:"edges"`
}

// ProjectAirflow re-expresses a wave plan at Airflow DAG granularity.
//
// Each pipeline maps to the DAG identifier parsed from its `airflow` link:
// the path segment following "/dags/", or the raw URL when the pattern does
// not match. If any pipeline of the plan lacks an `airflow` link the
// projection fails with MISSING_AIRFLOW_LINK naming every missing pipeline,
// rather than silently degrading. Pipelines sharing a DAG id merge within
// each wave into one entry, and plan edges are re-expressed between DAG ids,
// deduplicated and with self-edges dropped (two pipelines on the same DAG
// produce no edge).
func ProjectAirflow(m *graph.Model, plan *Plan) (*AirflowPlan, error) {
	if plan == nil {
		return nil, nil
	}

	dagIDs := make(map[string]string)
	var missing []string
	for _, wave := range plan.Waves {
		for _, member := range wave.Members {
			p := m.Pipeline(member.Name)
			link := ""
			if p != nil {
				link = p.Links["airflow"]
			}
			if link == "" {
				missing = append(missing, member.Name)
				continue
			}
			dagIDs[member.Name] = parseDAGID(link)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.WithNames(errors.ErrCodeMissingLink, missing,
			"pipelines have no airflow link")
	}

	out := &AirflowPlan{}
	seenDAGs := make(map[string]bool)
	for _, wave := range plan.Waves {
		byDAG := make(map[string][]string)
		for _, member := range wave.Members {
			id := dagIDs[member.Name]
			byDAG[id] = append(byDAG[id], member.Name)
			seenDAGs[id] = true
		}
		ids := make([]string, 0, len(byDAG))
		for id := range byDAG {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		aw := AirflowWave{Number: wave.Number, Parallelism: len(ids)}
		for _, id := range ids {
			sort.Strings(byDAG[id])
			aw.DAGs = append(aw.DAGs, AirflowDAG{ID: id, Pipelines: byDAG[id]})
		}
		out.Waves = append(out.Waves, aw)
	}
	out.TotalDAGs = len(seenDAGs)

	edgeSet := make(map[AirflowEdge]bool)
	for _, e := range plan.Edges {
		ae := AirflowEdge{From: dagIDs[e.From], To: dagIDs[e.To]}
		if ae.From == ae.To || edgeSet[ae] {
			continue
		}
		edgeSet[ae] = true
		out.Edges = append(out.Edges, ae)
	}
	sort.Slice(out.Edges, func(i, j int) bool {
		if out.Edges[i].From != out.Edges[j].From {
			return out.Edges[i].From < out.Edges[j].From
		}
		return out.Edges[i].To < out.Edges[j].To
	})
	return out, nil
}

// parseDAGID extracts the DAG identifier from an Airflow link: the path
// segment following "/dags/", or the raw URL when the pattern is absent.
func parseDAGID(link string) string {
	const marker = "/dags/"
	idx := strings.Index(link, marker)
	if idx < 0 {
		return link
	}
	rest := link[idx+len(marker):]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return link
	}
	return rest
}
