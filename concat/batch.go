package concat

import (
	"sort"

	"golang.org/x/exp/maps"

	"tensorgraph/arraygraph"
	"tensorgraph/transform"
)

// CallSiteLocation pairs a Call with its own precomputed NamedCallResults,
// the handle later splicing needs to replace each original result with a
// slice of the new concatenated return.
type CallSiteLocation struct {
	Call    *arraygraph.Call
	Results map[string]*arraygraph.NamedCallResult
}

// NewCallSiteLocation builds a CallSiteLocation for call.
func NewCallSiteLocation(call *arraygraph.Call) CallSiteLocation {
	results := make(map[string]*arraygraph.NamedCallResult, len(call.Function.Returns))
	for _, name := range call.Names() {
		if r, ok := call.Get(name); ok {
			if ncr, ok := r.(*arraygraph.NamedCallResult); ok {
				results[name] = ncr
			}
		}
	}
	return CallSiteLocation{Call: call, Results: results}
}

// CallSiteDependencyCollector determines, within one FunctionIdentifier
// pool, which call sites reference another pool member's result (spec.md
// §4.4 "within the pool, sites are ordered by dependency").
type CallSiteDependencyCollector struct {
	pool map[*arraygraph.Call]struct{}
}

// NewCallSiteDependencyCollector builds a collector scoped to pool.
func NewCallSiteDependencyCollector(pool []CallSiteLocation) *CallSiteDependencyCollector {
	p := make(map[*arraygraph.Call]struct{}, len(pool))
	for _, loc := range pool {
		p[loc.Call] = struct{}{}
	}
	return &CallSiteDependencyCollector{pool: p}
}

// DependsOn returns the distinct pool members (other than site itself)
// that site's own bindings transitively reference.
func (c *CallSiteDependencyCollector) DependsOn(site *arraygraph.Call) []*arraygraph.Call {
	seen := map[arraygraph.Array]struct{}{}
	seenDep := map[*arraygraph.Call]struct{}{}
	var deps []*arraygraph.Call
	var walk func(a arraygraph.Array)
	walk = func(a arraygraph.Array) {
		if a == nil {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		if ncr, ok := a.(*arraygraph.NamedCallResult); ok {
			if _, inPool := c.pool[ncr.Call]; inPool && ncr.Call != site {
				if _, already := seenDep[ncr.Call]; !already {
					seenDep[ncr.Call] = struct{}{}
					deps = append(deps, ncr.Call)
				}
			}
			return
		}
		for _, child := range transform.Children(a) {
			walk(child)
		}
	}
	for _, name := range sortedBindingNames(site.Bindings) {
		walk(site.Bindings[name])
	}
	return deps
}

// FunctionIdentifierPools groups call sites by their
// arraygraph.FunctionIdentifier tag (spec.md §4.4 "Call sites sharing a
// FunctionIdentifier tag form a pool"), preserving sites' relative order
// within each pool.
func FunctionIdentifierPools(sites []*arraygraph.Call) map[string][]*arraygraph.Call {
	pools := map[string][]*arraygraph.Call{}
	for _, s := range sites {
		for t := range s.Tags {
			if fid, ok := t.(arraygraph.FunctionIdentifier); ok {
				pools[fid.Identifier] = append(pools[fid.Identifier], s)
			}
		}
	}
	return pools
}

// Batch is a group of mutually similar, ready call sites to concatenate
// as one.
type Batch struct {
	Sites []*arraygraph.Call
}

// similarityKey groups call sites considered batchable together. This
// package's scope simplification (doc.go) makes sites sharing one
// FunctionDefinition pointer trivially similar (identical return-name set
// and body structure by construction), so the key is just that pointer;
// the general "structurally similar under a tag ignore list" comparison
// spec.md §4.4 describes for genuinely distinct FunctionDefinitions is not
// implemented.
func similarityKey(c *arraygraph.Call) *arraygraph.FunctionDefinition {
	return c.Function
}

// firstOutputAxisLength returns the axis-0 length of c's first return (by
// sorted return name), or 0 if the return is scalar or its axis-0 length is
// a symbolic expression rather than a constant. This is the tie-break key
// spec.md §5(c)/§9 requires batching to order by, so that a pool's
// processing order (and therefore the generated output) is reproducible
// bit-for-bit across runs regardless of map/slice iteration order upstream.
func firstOutputAxisLength(c *arraygraph.Call) int64 {
	names := c.Names()
	if len(names) == 0 {
		return 0
	}
	ret, ok := c.Get(names[0])
	if !ok {
		return 0
	}
	shape := ret.Shape()
	if len(shape) == 0 || shape[0].IsExpr() {
		return 0
	}
	return shape[0].Int()
}

// BuildBatches partitions pool into similarity batches honoring call-site
// dependencies: a site is only included in a round once every pool member
// it depends on has already been placed in an earlier round. Within a
// round, ready sites are ordered by firstOutputAxisLength before grouping
// (spec.md §5(c)'s "stable tie-break by first-output axis length"), so
// batch composition and ordering do not depend on pool's incoming order.
// Batches smaller than two sites are skipped (spec.md §4.4); a dependency
// cycle within the pool (spec.md errs.KindCallSiteCycle) strands every
// remaining site into skipped rather than looping forever.
func BuildBatches(pool []*arraygraph.Call) (batches []Batch, skipped []*arraygraph.Call) {
	locs := make([]CallSiteLocation, len(pool))
	for i, c := range pool {
		locs[i] = NewCallSiteLocation(c)
	}
	dc := NewCallSiteDependencyCollector(locs)

	remaining := make([]*arraygraph.Call, len(pool))
	copy(remaining, pool)
	done := map[*arraygraph.Call]struct{}{}

	for len(remaining) > 0 {
		var ready []*arraygraph.Call
		for _, c := range remaining {
			blocked := false
			for _, dep := range dc.DependsOn(c) {
				if _, isDone := done[dep]; !isDone {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, c)
			}
		}
		if len(ready) == 0 {
			skipped = append(skipped, remaining...)
			return batches, skipped
		}
		sort.SliceStable(ready, func(i, j int) bool {
			return firstOutputAxisLength(ready[i]) < firstOutputAxisLength(ready[j])
		})

		var order []*arraygraph.FunctionDefinition
		groups := map[*arraygraph.FunctionDefinition][]*arraygraph.Call{}
		for _, c := range ready {
			key := similarityKey(c)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], c)
		}
		for _, key := range order {
			g := groups[key]
			if len(g) < 2 {
				skipped = append(skipped, g...)
			} else {
				batches = append(batches, Batch{Sites: g})
			}
			for _, c := range g {
				done[c] = struct{}{}
			}
		}

		var next []*arraygraph.Call
		for _, c := range remaining {
			if _, isDone := done[c]; !isDone {
				next = append(next, c)
			}
		}
		remaining = next
	}
	return batches, skipped
}

func sortedBindingNames(bindings map[string]arraygraph.Array) []string {
	names := maps.Keys(bindings)
	sort.Strings(names)
	return names
}
