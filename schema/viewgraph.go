package schema

import (
	"fmt"
	"strings"
)

// CycleError reports a cyclic view dependency. Views lists the members of the
// residual cycle in declaration order.
type CycleError struct {
	Views []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic view dependency between: %s", strings.Join(e.Views, ", "))
}

// ResolveViewOrder returns the view names in creation order: every view comes
// after the views it depends on. Drop order is the exact reverse. Edges that
// point at tables are ignored here since tables are always created before any
// view stage.
//
// Ties between ready views break by declaration order, not by name, so the
// output is reproducible and tracks the snapshot file.
func ResolveViewOrder(views []View) ([]string, error) {
	viewIndex := make(map[string]int, len(views))
	for i, v := range views {
		viewIndex[v.Name] = i
	}

	// dependents[i] lists views that must come after view i.
	dependents := make([][]int, len(views))
	inDegree := make([]int, len(views))
	for i, v := range views {
		for _, dep := range v.DependsOn {
			j, ok := viewIndex[dep]
			if !ok {
				continue // table dependency
			}
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	var order []string
	resolved := make([]bool, len(views))
	// Kahn's algorithm; the ready scan restarts from index zero each round so
	// declaration order wins among ties.
	for len(order) < len(views) {
		progressed := false
		for i := range views {
			if resolved[i] || inDegree[i] != 0 {
				continue
			}
			resolved[i] = true
			order = append(order, views[i].Name)
			for _, dep := range dependents[i] {
				inDegree[dep]--
			}
			progressed = true
			break
		}
		if !progressed {
			// Whatever remains has no zero-in-degree node: a cycle.
			var cycle []string
			for i := range views {
				if !resolved[i] {
					cycle = append(cycle, views[i].Name)
				}
			}
			return nil, &CycleError{Views: cycle}
		}
	}

	return order, nil
}
