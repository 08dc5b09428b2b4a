package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/n3reason/internal/term"
)

// Finding levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Rule is one log:implies statement with formula sides.
type Rule struct {
	ID         string
	Antecedent *term.Formula
	Consequent *term.Formula
}

// Rules extracts the rules from stmts, numbering them rule-1, rule-2, ...
// in input order.
func Rules(stmts []term.Statement) []Rule {
	var out []Rule
	for _, st := range stmts {
		if p, ok := st.Predicate.(term.IRI); !ok || p != term.LogImplies {
			continue
		}
		ante, ok := st.Subject.(*term.Formula)
		if !ok {
			continue
		}
		cons, ok := st.Object.(*term.Formula)
		if !ok {
			continue
		}
		out = append(out, Rule{
			ID:         fmt.Sprintf("rule-%d", len(out)+1),
			Antecedent: ante,
			Consequent: cons,
		})
	}
	return out
}

// CycleWarning represents recursion among rules.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["rule-1", "rule-2", "rule-1"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeCycles reports every recursive group of rules.
//
// The algorithm:
//  1. Build rule → rule dependency graph from consequent/antecedent patterns
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops
//
// Findings come out in rule order. Rules without recursion return an
// empty list.
func AnalyzeCycles(rules []Rule) []CycleWarning {
	if len(rules) == 0 {
		return []CycleWarning{}
	}

	order := make(map[string]int, len(rules))
	byID := make(map[string]Rule, len(rules))
	for i, r := range rules {
		order[r.ID] = i
		byID[r.ID] = r
	}

	graph := buildDependencyGraph(rules)
	sccs := tarjanSCC(graph, rules)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		slices.SortFunc(scc, func(a, b string) int { return order[a] - order[b] })
		warnings = append(warnings, cycleSCCToWarning(scc, graph, byID))
	}
	slices.SortFunc(warnings, func(a, b CycleWarning) int { return order[a.Path[0]] - order[b.Path[0]] })
	return warnings
}

// dependencyGraph maps rule ID → rules its conclusions could trigger, in rule order.
type dependencyGraph map[string][]string

// buildDependencyGraph adds an edge A → B when some consequent statement of
// A could match some antecedent pattern of B.
func buildDependencyGraph(rules []Rule) dependencyGraph {
	graph := make(dependencyGraph, len(rules))
	for _, a := range rules {
		graph[a.ID] = []string{}
		for _, b := range rules {
			if feeds(a.Consequent, b.Antecedent) {
				graph[a.ID] = append(graph[a.ID], b.ID)
			}
		}
	}
	return graph
}

// feeds reports whether a statement of cons could match a pattern of ante.
func feeds(cons, ante *term.Formula) bool {
	for _, c := range cons.Statements() {
		for _, p := range ante.Statements() {
			if compatible(c.Subject, p.Subject) &&
				compatible(c.Predicate, p.Predicate) &&
				compatible(c.Object, p.Object) {
				return true
			}
		}
	}
	return false
}

// compatible over-approximates unification: variables and blank nodes match
// anything, lists are compared member-wise, everything else by key.
func compatible(a, b term.Term) bool {
	if open(a) || open(b) {
		return true
	}
	la, aok := a.(term.List)
	lb, bok := b.(term.List)
	if aok && bok {
		if la.Len() != lb.Len() {
			return false
		}
		for i := range la.Len() {
			if !compatible(la.At(i), lb.At(i)) {
				return false
			}
		}
		return true
	}
	return a.Key() == b.Key()
}

func open(t term.Term) bool {
	switch t.(type) {
	case term.Variable, term.BlankNode:
		return true
	}
	return false
}

// invents reports whether a consequent introduces nodes its rule never
// binds: blank nodes or existential variables.
func invents(r Rule) bool {
	bound := map[string]bool{}
	for _, v := range term.Variables(r.Antecedent) {
		bound[v.Name] = true
	}
	var walk func(term.Term) bool
	walk = func(t term.Term) bool {
		switch v := t.(type) {
		case term.BlankNode:
			return true
		case term.Variable:
			return v.Existential && !bound[v.Name]
		case term.List:
			return slices.ContainsFunc(v.Members(), walk)
		}
		return false
	}
	for _, st := range r.Consequent.Statements() {
		if walk(st.Subject) || walk(st.Predicate) || walk(st.Object) {
			return true
		}
	}
	return false
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in rule order so the result is deterministic.
//
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph dependencyGraph, rules []Rule) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack into an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, r := range rules {
		if _, visited := indices[r.ID]; !visited {
			strongConnect(r.ID)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC, sorted in rule order, to a CycleWarning.
func cycleSCCToWarning(scc []string, graph dependencyGraph, rules map[string]Rule) CycleWarning {
	level := LevelInfo
	var inventing []string
	for _, id := range scc {
		if invents(rules[id]) {
			level = LevelWarning
			inventing = append(inventing, id)
		}
	}

	var path []string
	var msg string
	if len(scc) == 1 {
		path = []string{scc[0], scc[0]}
		msg = fmt.Sprintf("Recursive rule: %s → %s", scc[0], scc[0])
	} else {
		path = reconstructCyclePath(scc, graph)
		msg = fmt.Sprintf("Mutually recursive rules: %s", strings.Join(path, " → "))
	}
	if level == LevelWarning {
		msg += fmt.Sprintf("; %s invent new nodes and may not terminate", strings.Join(inventing, ", "))
	}
	return CycleWarning{Path: path, Message: msg, Level: level}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: Start at first node in SCC, follow edges to other SCC members,
// continue until we return to start node.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		// Find next SCC member reachable from current
		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
