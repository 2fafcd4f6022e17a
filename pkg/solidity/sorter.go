package solidity

type Sorter struct{}

func NewSorter() *Sorter {
	return &Sorter{}
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// SortClasses orders classes so that base classes, and classes declared in imported files,
// come before the classes that depend on them. Ties keep the input order and cycles are
// broken where the depth first walk finds the back edge.
func (s *Sorter) SortClasses(classes []*Class) []*Class {
	byName := make(map[string][]int)
	byFile := make(map[string][]int)
	for i, c := range classes {
		byName[c.Name] = append(byName[c.Name], i)
		byFile[c.RelativePath] = append(byFile[c.RelativePath], i)
	}

	dependencies := func(i int) []int {
		deps := make([]int, 0)
		for _, base := range classes[i].Bases {
			deps = append(deps, byName[base]...)
		}
		for _, imp := range classes[i].Imports {
			if imp.ResolvedPath == classes[i].RelativePath {
				continue
			}
			deps = append(deps, byFile[imp.ResolvedPath]...)
		}
		return deps
	}

	states := make([]visitState, len(classes))
	sorted := make([]*Class, 0, len(classes))

	var visit func(i int)
	visit = func(i int) {
		if states[i] != unvisited {
			return
		}
		states[i] = visiting
		for _, d := range dependencies(i) {
			visit(d)
		}
		states[i] = visited
		sorted = append(sorted, classes[i])
	}

	for i := range classes {
		visit(i)
	}
	return sorted
}
