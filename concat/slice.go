package concat

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

// sliceKey identifies one memoized output slice.
type sliceKey struct {
	call  *arraygraph.Call
	name  string
	axis  int
	start int64
	stop  int64
}

// Slicer builds BasicIndex slices of a concatenated call's named results,
// memoized so repeated requests for the same (call, name, axis, range)
// return the same node -- spec.md §4.4 "Memoization: ... output slicings
// are built through small memoized factories to preserve structural
// sharing".
type Slicer struct {
	cache map[sliceKey]*arraygraph.BasicIndex
}

// NewSlicer returns a ready-to-use Slicer.
func NewSlicer() *Slicer {
	return &Slicer{cache: map[sliceKey]*arraygraph.BasicIndex{}}
}

// Slice returns the slice of newCall's named return along axis covering
// [loc.Start, loc.Start+loc.Length) -- the replacement for one original
// call site's NamedCallResult (spec.md §8 testable property 5).
func (s *Slicer) Slice(newCall *arraygraph.Call, name string, axis int, loc ConcatenatedCallSite) (*arraygraph.BasicIndex, error) {
	key := sliceKey{call: newCall, name: name, axis: axis, start: loc.Start, stop: loc.Start + loc.Length}
	if cached, ok := s.cache[key]; ok {
		return cached, nil
	}
	full, ok := newCall.Get(name)
	if !ok {
		return nil, errs.New(errs.KindUnknownName, "concatenated call has no return %q", name)
	}
	if axis >= len(full.Shape()) {
		return nil, errs.New(errs.KindBadAxes, "return %q has no axis %d", name, axis)
	}
	indices := make([]arraygraph.IndexItem, len(full.Shape()))
	newShape := append(arraygraph.Shape{}, full.Shape()...)
	for i := range indices {
		if i == axis {
			indices[i] = arraygraph.SliceIndex(scalarexpr.NewIntConst(key.start), scalarexpr.NewIntConst(key.stop), nil)
			newShape[i] = arraygraph.IntShape(loc.Length)
			continue
		}
		indices[i] = arraygraph.SliceIndex(nil, nil, nil)
	}
	out, err := arraygraph.NewBasicIndex(full, indices, newShape, nil)
	if err != nil {
		return nil, err
	}
	s.cache[key] = out
	return out, nil
}
