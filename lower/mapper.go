package lower

import (
	"tensorgraph/arraygraph"
	"tensorgraph/transform"
)

// LowerAll lowers every high-level sugar node reachable from a to
// IndexLambda form, bottom-up, so a node's own bindings are already
// canonical by the time it is itself lowered. Reuses
// transform.CopyMapper's identity memoization (via its PostProcess hook)
// so a shared subgraph is lowered once no matter how many parents
// reference it.
func LowerAll(a arraygraph.Array) (arraygraph.Array, error) {
	m := transform.NewCopyMapper()
	m.PostProcess = Lower
	out := m.Rec(a)
	if m.Err != nil {
		return nil, m.Err
	}
	return out, nil
}
