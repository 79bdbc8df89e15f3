package preprocess

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/transform"
)

// checkNameValidity walks every output and ensures distinct input-argument
// instances never share a name (spec.md §4.5 "every input argument name
// refers to a unique input-argument node"; pytato's NamesValidityChecker).
func checkNameValidity(outputs []arraygraph.Array) error {
	seen := map[string]arraygraph.Array{}
	var firstErr error
	w := transform.NewCachedWalkMapper(func(a arraygraph.Array) {
		if firstErr != nil {
			return
		}
		name, ok := inputArgumentName(a)
		if !ok {
			return
		}
		if prior, ok := seen[name]; ok {
			if prior != a {
				firstErr = errs.New(errs.KindNameClash,
					"received two separate instances of inputs named %q", name)
			}
			return
		}
		seen[name] = a
	})
	for _, out := range outputs {
		w.Walk(out)
		if firstErr != nil {
			return firstErr
		}
	}
	return nil
}

func inputArgumentName(a arraygraph.Array) (string, bool) {
	switch n := a.(type) {
	case *arraygraph.Placeholder:
		return n.Name, true
	case *arraygraph.SizeParam:
		return n.Name, true
	case *arraygraph.DataWrapper:
		if n.Name == "" {
			return "", false
		}
		return n.Name, true
	default:
		return "", false
	}
}

// seedNames collects every already-assigned input-argument name reachable
// from outputs, used to seed the NameGenerator before any DataWrapper is
// renamed (spec.md §4.5 "seeded with observed input names").
func seedNames(outputs []arraygraph.Array) map[string]struct{} {
	seed := map[string]struct{}{}
	w := transform.NewCachedWalkMapper(func(a arraygraph.Array) {
		if name, ok := inputArgumentName(a); ok {
			seed[name] = struct{}{}
		}
	})
	for _, out := range outputs {
		w.Walk(out)
	}
	return seed
}
