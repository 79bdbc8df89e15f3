package loopgen

import "tensorgraph/scalarexpr"

// elementwiseIndexName returns the `_d` name scalarexpr uses for the d'th
// elementwise index, kept in one place so the translation mapper and
// InlinedResult's substitution agree on the convention.
func elementwiseIndexName(d int) string {
	return scalarexpr.ElementwiseIndex(d).Name
}
