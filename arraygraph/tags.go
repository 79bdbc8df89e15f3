package arraygraph

// Tag is an opaque, hashable value attached to arrays, axes, or reduction
// descriptors (spec.md GLOSSARY). Any comparable Go value can serve as a
// Tag; the vocabulary below (spec.md §6) is recognized by the pipeline,
// everything else passes through opaquely.
type Tag interface{}

// TagSet is an unordered set of Tags. Implemented as a map for O(1)
// membership; iteration order is never relied upon (callers that need
// determinism sort by a string key of their choosing).
type TagSet map[Tag]struct{}

// NewTagSet builds a TagSet from the given tags.
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is a member of the set (nil-safe).
func (s TagSet) Has(t Tag) bool {
	if s == nil {
		return false
	}
	_, ok := s[t]
	return ok
}

// HasType reports whether any tag in the set has the same dynamic type as
// sample -- used for "ignore tag types" filtering (spec.md §4.4, §4.6.3).
func (s TagSet) HasType(sample Tag) bool {
	for t := range s {
		if sameType(t, sample) {
			return true
		}
	}
	return false
}

// Without returns a copy of s with every tag whose type matches one of
// ignoreTypes removed.
func (s TagSet) Without(ignoreTypes ...Tag) TagSet {
	out := make(TagSet, len(s))
	for t := range s {
		skip := false
		for _, ig := range ignoreTypes {
			if sameType(t, ig) {
				skip = true
				break
			}
		}
		if !skip {
			out[t] = struct{}{}
		}
	}
	return out
}

// Union returns the set union of s and other, new allocation.
func (s TagSet) Union(other TagSet) TagSet {
	out := make(TagSet, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

func sameType(a, b Tag) bool {
	return tagTypeName(a) == tagTypeName(b)
}

func tagTypeName(t Tag) string {
	switch t.(type) {
	case Named:
		return "Named"
	case PrefixNamed:
		return "PrefixNamed"
	case ImplStored:
		return "ImplStored"
	case ImplInlined:
		return "ImplInlined"
	case ImplSubstitution:
		return "ImplSubstitution"
	case ForceValueArg:
		return "ForceValueArg"
	case InlineCallTag:
		return "InlineCallTag"
	case FunctionIdentifier:
		return "FunctionIdentifier"
	case ConcatenatedCallInputConcatAxisTag:
		return "ConcatenatedCallInputConcatAxisTag"
	case ConcatenatedCallOutputSliceAxisTag:
		return "ConcatenatedCallOutputSliceAxisTag"
	case UseInputAxis:
		return "UseInputAxis"
	default:
		return "unknown"
	}
}

// --- recognized tag vocabulary (spec.md §6) ---

// Named requests a specific, checked-for-conflict name for an input
// argument during preprocessing.
type Named struct{ Name string }

// PrefixNamed requests a name generated from Prefix, deduplicated against
// observed names during preprocessing.
type PrefixNamed struct{ Prefix string }

// ImplementationStrategy is the marker category for the Impl* tags below;
// it has no values of its own (spec.md §6 lists it as "(base)").
type ImplementationStrategy interface{ implementationStrategy() }

// ImplStored promotes an IndexLambda from the default Inlined lowering to
// a materialized, stored buffer (spec.md §4.6).
type ImplStored struct{}

func (ImplStored) implementationStrategy() {}

// ImplInlined explicitly requests inline lowering (the default anyway,
// but useful to override a competing ImplStored from an outer rewrite).
type ImplInlined struct{}

func (ImplInlined) implementationStrategy() {}

// ImplSubstitution requests substitution-rule lowering.
type ImplSubstitution struct{}

func (ImplSubstitution) implementationStrategy() {}

// ForceValueArg requests a scalar Placeholder be lowered as a kernel value
// argument rather than a 0-d array argument.
type ForceValueArg struct{}

// InlineCallTag marks a Call for inlining by inline.InlineCalls.
type InlineCallTag struct{}

// FunctionIdentifier groups call sites into a concatenation pool
// (spec.md §4.4 "Batching policy").
type FunctionIdentifier struct{ Identifier string }

// ConcatenatedCallInputConcatAxisTag records, on a rewritten parameter
// Placeholder, which axis the concatenation plan used for it.
type ConcatenatedCallInputConcatAxisTag struct{ Axis int }

// ConcatenatedCallOutputSliceAxisTag records, on a sliced result, which
// axis the concatenation plan used for it.
type ConcatenatedCallOutputSliceAxisTag struct{ Axis int }

// UseInputAxis pins a concatenation candidate's output axis to a specific
// parameter+axis pair rather than leaving it to the search.
type UseInputAxis struct {
	Arg  string
	Axis int
}
