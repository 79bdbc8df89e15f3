package loopgen

import (
	"fmt"

	"tensorgraph/arraygraph"
	"tensorgraph/polyhedral"
	"tensorgraph/scalarexpr"
)

// domainForShape builds the half-open box domain for a stored node's own
// axes, named name (spec.md §4.6.2, pytato's domain_for_shape): one
// `name_dim<i>` bound per axis, narrowed by polyhedral.FromBox. Reduction
// bounds get their own domains, appended directly to the kernel by
// translateReduce as soon as a bound's iname is minted (exprgen.go), so
// this function only ever needs to know about a node's own shape. It
// returns the axis inames in order alongside the domain so the caller can
// build the store instruction's assignee and within_inames without
// recomputing the naming scheme.
func domainForShape(name string, shape arraygraph.Shape, knownSizeParams map[string]bool) (*polyhedral.Set, []string, error) {
	axisInames := make([]string, len(shape))
	bounds := make([]polyhedral.Bound, len(shape))
	for i, c := range shape {
		iname := fmt.Sprintf("%s_dim%d", name, i)
		axisInames[i] = iname
		bounds[i] = polyhedral.Bound{
			Name:  iname,
			Lower: scalarexpr.NewIntConst(0),
			Upper: c.AsExpr(),
		}
	}

	dom, err := polyhedral.FromBox(bounds, knownSizeParams)
	if err != nil {
		return nil, nil, err
	}
	return dom, axisInames, nil
}
