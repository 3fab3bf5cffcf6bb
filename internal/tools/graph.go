package tools

import (
	"context"
	"fmt"
	"strings"
)

// GraphExecutor is the boundary to the knowledge-graph backend.
// Records map field names to values; node values arrive flattened to
// their property maps, lists stay lists.
type GraphExecutor interface {
	RunQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

const (
	planQuery = `
    MATCH (p:Plan {name: $plan_name})
    OPTIONAL MATCH (p)-[:INCLUDES]->(b:Benefit)
    OPTIONAL MATCH (p)-[:EXCLUDES]->(e:Exclusion)
    RETURN p, collect(distinct b) as benefits, collect(distinct e) as exclusions
    `

	coverageQuery = `
    MATCH (b:Benefit)-[:COVERS]->(p:Procedure {name: $procedure})
    OPTIONAL MATCH (plan:Plan)-[:INCLUDES]->(b)
    RETURN p, collect(distinct b) as benefits, collect(distinct plan) as plans
    `

	exclusionQuery = `
    MATCH (e:Exclusion)-[:EXCLUDES]->(p:Procedure {name: $procedure})
    OPTIONAL MATCH (plan:Plan)-[:EXCLUDES]->(e)
    RETURN p, collect(distinct e) as exclusions, collect(distinct plan) as plans
    `

	// Substring match is case-sensitive, matching the behavior the
	// prompt-tuned model expects.
	graphSearchQuery = `
    MATCH (n)
    WHERE n.name CONTAINS $query OR n.description CONTAINS $query
    RETURN n, labels(n) as type
    LIMIT 5
    `
)

// PlanLookupTool fetches a plan with its benefits and exclusions and
// renders a deterministic textual report.
type PlanLookupTool struct {
	graph GraphExecutor
}

func NewPlanLookupTool(graph GraphExecutor) *PlanLookupTool {
	return &PlanLookupTool{graph: graph}
}

func (t *PlanLookupTool) Name() string {
	return "query_insurance_plan"
}

func (t *PlanLookupTool) Description() string {
	return "Query information about a specific insurance plan. Input is the plan name; returns the plan description, benefits and exclusions."
}

func (t *PlanLookupTool) Execute(ctx context.Context, input string) (Result, error) {
	planName := strings.TrimSpace(input)

	rows, err := t.graph.RunQuery(ctx, planQuery, map[string]any{"plan_name": planName})
	if err != nil {
		return errorResult("Error querying knowledge graph: %v", err), nil
	}

	if len(rows) == 0 {
		return Result{Content: fmt.Sprintf("No information found for plan: %s", planName)}, nil
	}

	plan := asProps(rows[0]["p"])
	benefits := nodeList(rows[0]["benefits"])
	exclusions := nodeList(rows[0]["exclusions"])

	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %s\n", propString(plan, "name", planName))
	fmt.Fprintf(&b, "Description: %s\n\n", propString(plan, "description", "No description available"))

	b.WriteString("Benefits:\n")
	if len(benefits) > 0 {
		for _, benefit := range benefits {
			fmt.Fprintf(&b, "- %s: %s\n", propString(benefit, "name", ""), propString(benefit, "description", "No description"))
		}
	} else {
		b.WriteString("- No specific benefits listed\n")
	}

	b.WriteString("\nExclusions:\n")
	if len(exclusions) > 0 {
		for _, exclusion := range exclusions {
			fmt.Fprintf(&b, "- %s: %s\n", propString(exclusion, "name", ""), propString(exclusion, "description", "No description"))
		}
	} else {
		b.WriteString("- No specific exclusions listed\n")
	}

	return Result{Content: b.String()}, nil
}

// ProcedureCoverageTool reports which benefits cover a procedure, which
// exclusions exclude it, and the plans on either side.
type ProcedureCoverageTool struct {
	graph GraphExecutor
}

func NewProcedureCoverageTool(graph GraphExecutor) *ProcedureCoverageTool {
	return &ProcedureCoverageTool{graph: graph}
}

func (t *ProcedureCoverageTool) Name() string {
	return "query_coverage_for_procedure"
}

func (t *ProcedureCoverageTool) Description() string {
	return "Check if a specific medical procedure is covered. Input is the procedure name; returns covering benefits, excluding conditions, and the plans involved."
}

func (t *ProcedureCoverageTool) Execute(ctx context.Context, input string) (Result, error) {
	procedure := strings.TrimSpace(input)
	params := map[string]any{"procedure": procedure}

	covered, err := t.graph.RunQuery(ctx, coverageQuery, params)
	if err != nil {
		return errorResult("Error querying knowledge graph: %v", err), nil
	}

	excluded, err := t.graph.RunQuery(ctx, exclusionQuery, params)
	if err != nil {
		return errorResult("Error querying knowledge graph: %v", err), nil
	}

	if len(covered) == 0 && len(excluded) == 0 {
		return Result{Content: fmt.Sprintf("No information found for procedure: %s", procedure)}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Coverage information for: %s\n\n", procedure)

	if len(covered) > 0 {
		benefits := nodeList(covered[0]["benefits"])
		plans := nodeList(covered[0]["plans"])

		b.WriteString("Covered under the following benefits:\n")
		for _, benefit := range benefits {
			fmt.Fprintf(&b, "- %s: %s\n", propString(benefit, "name", ""), propString(benefit, "description", "No description"))
		}

		b.WriteString("\nIncluded in these plans:\n")
		for _, plan := range plans {
			fmt.Fprintf(&b, "- %s\n", propString(plan, "name", ""))
		}
	}

	if len(excluded) > 0 {
		exclusions := nodeList(excluded[0]["exclusions"])
		plans := nodeList(excluded[0]["plans"])

		b.WriteString("\nExcluded under the following conditions:\n")
		for _, exclusion := range exclusions {
			fmt.Fprintf(&b, "- %s: %s\n", propString(exclusion, "name", ""), propString(exclusion, "description", "No description"))
		}

		b.WriteString("\nExcluded in these plans:\n")
		for _, plan := range plans {
			fmt.Fprintf(&b, "- %s\n", propString(plan, "name", ""))
		}
	}

	return Result{Content: b.String()}, nil
}

// GraphSearchTool matches any node whose name or description contains
// the query text and reports up to 5 results labeled by node type.
type GraphSearchTool struct {
	graph GraphExecutor
}

func NewGraphSearchTool(graph GraphExecutor) *GraphSearchTool {
	return &GraphSearchTool{graph: graph}
}

func (t *GraphSearchTool) Name() string {
	return "search_insurance_knowledge_graph"
}

func (t *GraphSearchTool) Description() string {
	return "Perform a general search on the insurance knowledge graph. Input is free text; returns matching plans, benefits, exclusions and procedures."
}

func (t *GraphSearchTool) Execute(ctx context.Context, input string) (Result, error) {
	query := strings.TrimSpace(input)

	rows, err := t.graph.RunQuery(ctx, graphSearchQuery, map[string]any{"query": query})
	if err != nil {
		return errorResult("Error querying knowledge graph: %v", err), nil
	}

	if len(rows) == 0 {
		return Result{Content: fmt.Sprintf("No results found for query: %s", query)}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n\n", query)

	for _, row := range rows {
		node := asProps(row["n"])
		fmt.Fprintf(&b, "%s: %s\n", firstLabel(row["type"]), propString(node, "name", ""))
		if desc, ok := node["description"]; ok {
			fmt.Fprintf(&b, "Description: %v\n", desc)
		}
		b.WriteString("\n")
	}

	return Result{Content: b.String()}, nil
}

// asProps coerces a flattened node value to its property map.
func asProps(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// nodeList coerces a collected list of flattened nodes.
func nodeList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	nodes := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			nodes = append(nodes, m)
		}
	}
	return nodes
}

// propString reads a string property with a fallback.
func propString(props map[string]any, key, fallback string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// firstLabel extracts the first node label from a labels(n) value.
func firstLabel(v any) string {
	if labels, ok := v.([]any); ok && len(labels) > 0 {
		if s, ok := labels[0].(string); ok {
			return s
		}
	}
	return "Node"
}
