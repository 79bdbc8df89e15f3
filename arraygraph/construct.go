package arraygraph

import (
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

// isIdentifier reports whether s is a valid Go-style identifier: starts
// with a letter or underscore, followed by letters/digits/underscores, and
// is non-empty. Required by every named-input constructor (spec.md §7
// "Construction errors ... name not an identifier").
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			if !isLetter {
				return false
			}
		} else if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

func validateAxes(shape Shape, axes []Axis) error {
	if axes != nil && len(axes) != len(shape) {
		return errs.New(errs.KindBadAxes,
			"axis count %d does not match shape length %d", len(axes), len(shape))
	}
	return nil
}

func validateDtype(dtype Dtype) error {
	if !dtype.valid() {
		return errs.New(errs.KindDtypeMismatch, "unrecognized dtype %q", dtype)
	}
	return nil
}

// NewPlaceholder constructs a named symbolic input.
func NewPlaceholder(name string, shape Shape, dtype Dtype, axes []Axis, tags TagSet) (*Placeholder, error) {
	if !isIdentifier(name) {
		return nil, errs.New(errs.KindUnknownName, "placeholder name %q is not a valid identifier", name)
	}
	if err := validateDtype(dtype); err != nil {
		return nil, err
	}
	if err := validateAxes(shape, axes); err != nil {
		return nil, err
	}
	return &Placeholder{base: newBase(shape, dtype, axes, tags, nil), Name: name}, nil
}

// NewDataWrapper constructs an opaque concrete-data reference. name may be
// "" (anonymous, named during preprocessing); data's declared shape/dtype
// must agree with the given ones.
func NewDataWrapper(name string, shape Shape, dtype Dtype, data DataRef, axes []Axis, tags TagSet) (*DataWrapper, error) {
	if name != "" && !isIdentifier(name) {
		return nil, errs.New(errs.KindUnknownName, "data wrapper name %q is not a valid identifier", name)
	}
	if err := validateDtype(dtype); err != nil {
		return nil, err
	}
	if err := validateAxes(shape, axes); err != nil {
		return nil, err
	}
	if data != nil {
		if !shape.Equal(data.Shape()) {
			return nil, errs.New(errs.KindBadShape, "data wrapper %q declared shape disagrees with bound data", name)
		}
		if dtype != data.Dtype() {
			return nil, errs.New(errs.KindDtypeMismatch, "data wrapper %q declared dtype disagrees with bound data", name)
		}
	}
	return &DataWrapper{base: newBase(shape, dtype, axes, tags, nil), Name: name, Data: data}, nil
}

// NewSizeParam constructs a named scalar integer input.
func NewSizeParam(name string, tags TagSet) (*SizeParam, error) {
	if !isIdentifier(name) {
		return nil, errs.New(errs.KindUnknownName, "size param name %q is not a valid identifier", name)
	}
	return &SizeParam{base: newBase(nil, Int64, nil, tags, nil), Name: name}, nil
}

// NewIndexLambda constructs the canonical node, validating that every free
// operand reference in expr is bound (spec.md §7 "unknown name").
func NewIndexLambda(
	shape Shape, dtype Dtype,
	expr scalarexpr.Expr,
	bindings map[string]Array,
	varToReductionDescr map[string]ReductionDescr,
	axes []Axis, tags TagSet,
) (*IndexLambda, error) {
	if err := validateDtype(dtype); err != nil {
		return nil, err
	}
	if err := validateAxes(shape, axes); err != nil {
		return nil, err
	}
	deps := scalarexpr.Dependencies(expr)
	for name := range deps.Operands {
		if _, ok := bindings[name]; !ok {
			return nil, errs.New(errs.KindUnknownName, "index lambda references unbound operand %q", name)
		}
	}
	return &IndexLambda{
		base:                newBase(shape, dtype, axes, tags, nil),
		Expr:                expr,
		Bindings:            bindings,
		VarToReductionDescr: varToReductionDescr,
	}, nil
}

// NewReshape constructs a Reshape, validating total element count is
// preserved only insofar as both shapes are concrete (symbolic shapes are
// trusted to the caller, per spec.md §4.2 "Reshape").
func NewReshape(arr Array, shape Shape, order Order, tags TagSet) (*Reshape, error) {
	if order != OrderC && order != OrderF {
		return nil, errs.New(errs.KindBadShape, "reshape order must be 'C' or 'F', got %q", order)
	}
	srcSize, dstSize, concrete := int64(1), int64(1), true
	for _, c := range arr.Shape() {
		concrete = concrete && !c.IsExpr()
		srcSize *= c.Int()
	}
	for _, c := range shape {
		concrete = concrete && !c.IsExpr()
		dstSize *= c.Int()
	}
	if concrete && srcSize != dstSize {
		return nil, errs.New(errs.KindBadShape, "cannot reshape %d elements into a shape of %d elements", srcSize, dstSize)
	}
	return &Reshape{base: newBase(shape, arr.Dtype(), nil, tags, nil), Array: arr, Order: order}, nil
}

// NewAxisPermutation constructs an AxisPermutation, validating perm is a
// permutation of arr's axes.
func NewAxisPermutation(arr Array, perm []int, tags TagSet) (*AxisPermutation, error) {
	n := len(arr.Shape())
	if len(perm) != n {
		return nil, errs.New(errs.KindBadAxes, "permutation length %d does not match array rank %d", len(perm), n)
	}
	seen := make([]bool, n)
	permuted := make(Shape, n)
	for outAxis, srcAxis := range perm {
		if srcAxis < 0 || srcAxis >= n || seen[srcAxis] {
			return nil, errs.New(errs.KindBadAxes, "permutation is not a valid rearrangement of axes 0..%d", n-1)
		}
		seen[srcAxis] = true
		permuted[outAxis] = arr.Shape()[srcAxis]
	}
	return &AxisPermutation{base: newBase(permuted, arr.Dtype(), nil, tags, nil), Array: arr, Perm: perm}, nil
}

func promoteAll(arrays []Array) (Dtype, error) {
	if len(arrays) == 0 {
		return "", errs.New(errs.KindDtypeMismatch, "at least one array is required")
	}
	dtype := arrays[0].Dtype()
	for _, a := range arrays[1:] {
		promoted, ok := Promote(dtype, a.Dtype())
		if !ok {
			return "", errs.New(errs.KindDtypeMismatch, "cannot promote dtypes %q and %q", dtype, a.Dtype())
		}
		dtype = promoted
	}
	return dtype, nil
}

// NewStack constructs a Stack along a freshly introduced Axis, requiring
// every input to share a shape and a promotable dtype.
func NewStack(arrays []Array, axis int, tags TagSet) (*Stack, error) {
	dtype, err := promoteAll(arrays)
	if err != nil {
		return nil, err
	}
	base0 := arrays[0].Shape()
	for _, a := range arrays[1:] {
		if !a.Shape().Equal(base0) {
			return nil, errs.New(errs.KindBadShape, "stack inputs must share a shape")
		}
	}
	if axis < 0 || axis > len(base0) {
		return nil, errs.New(errs.KindBadAxes, "stack axis %d out of range", axis)
	}
	out := make(Shape, 0, len(base0)+1)
	out = append(out, base0[:axis]...)
	out = append(out, IntShape(int64(len(arrays))))
	out = append(out, base0[axis:]...)
	return &Stack{base: newBase(out, dtype, nil, tags, nil), Arrays: arrays, Axis: axis}, nil
}

// NewConcatenate constructs a Concatenate joining arrays along an existing
// Axis, requiring identical shapes off-axis and a promotable dtype.
func NewConcatenate(arrays []Array, axis int, tags TagSet) (*Concatenate, error) {
	dtype, err := promoteAll(arrays)
	if err != nil {
		return nil, err
	}
	rank := len(arrays[0].Shape())
	if axis < 0 || axis >= rank {
		return nil, errs.New(errs.KindBadAxes, "concatenate axis %d out of range", axis)
	}
	for _, a := range arrays[1:] {
		s := a.Shape()
		if len(s) != rank {
			return nil, errs.New(errs.KindBadShape, "concatenate inputs must share rank")
		}
		for i := 0; i < rank; i++ {
			if i != axis && !shapeComponentEqual(s[i], arrays[0].Shape()[i]) {
				return nil, errs.New(errs.KindBadShape, "concatenate inputs must agree off-axis")
			}
		}
	}
	out := make(Shape, rank)
	copy(out, arrays[0].Shape())
	if out[axis].IsExpr() {
		return nil, errs.New(errs.KindBadShape, "concatenate axis must have a known integer extent per input")
	}
	total := int64(0)
	for _, a := range arrays {
		c := a.Shape()[axis]
		if c.IsExpr() {
			return nil, errs.New(errs.KindBadShape, "concatenate axis must have a known integer extent per input")
		}
		total += c.Int()
	}
	out[axis] = IntShape(total)
	return &Concatenate{base: newBase(out, dtype, nil, tags, nil), Arrays: arrays, Axis: axis}, nil
}

// NewRoll constructs a Roll of arr by shift elements along axis.
func NewRoll(arr Array, shift scalarexpr.Expr, axis int, tags TagSet) (*Roll, error) {
	if axis < 0 || axis >= len(arr.Shape()) {
		return nil, errs.New(errs.KindBadAxes, "roll axis %d out of range", axis)
	}
	return &Roll{base: newBase(arr.Shape(), arr.Dtype(), nil, tags, nil), Array: arr, Shift: shift, Axis: axis}, nil
}

// NewEinsum constructs an Einsum node. access must be of the
// "subscripts->subscripts" form; detailed subscript validation is left to
// package lower, which must parse access anyway to produce the canonical
// IndexLambda (spec.md §4.2).
func NewEinsum(access string, args []Array, shape Shape, tags TagSet) (*Einsum, error) {
	dtype, err := promoteAll(args)
	if err != nil {
		return nil, err
	}
	return &Einsum{base: newBase(shape, dtype, nil, tags, nil), AccessDescriptor: access, Args: args}, nil
}

// NewBasicIndex constructs a BasicIndex; resulting shape must be supplied
// by the caller (package lower derives it from the index tuple).
func NewBasicIndex(arr Array, indices []IndexItem, shape Shape, tags TagSet) (*BasicIndex, error) {
	return &BasicIndex{base: newBase(shape, arr.Dtype(), nil, tags, nil), Array: arr, Indices: indices}, nil
}

// NewAdvancedIndex constructs an AdvancedIndex; resulting shape must be
// supplied by the caller (package lower derives it from the indexers'
// broadcast shape).
func NewAdvancedIndex(arr Array, indexers []Array, contiguous bool, shape Shape, tags TagSet) (*AdvancedIndex, error) {
	if len(indexers) != len(arr.Shape()) {
		return nil, errs.New(errs.KindBadAxes, "advanced index must supply one indexer per axis")
	}
	return &AdvancedIndex{base: newBase(shape, arr.Dtype(), nil, tags, nil), Array: arr, Indexers: indexers, Contiguous: contiguous}, nil
}

// NewFunctionDefinition constructs a closed sub-DAG. parameterOrder fixes
// a deterministic iteration order over Parameters independent of map
// iteration (spec.md §9 "Determinism").
func NewFunctionDefinition(parameterOrder []string, parameters map[string]*Placeholder, returns map[string]Array, tags TagSet) (*FunctionDefinition, error) {
	for _, name := range parameterOrder {
		if _, ok := parameters[name]; !ok {
			return nil, errs.New(errs.KindUnknownName, "parameter order references unknown parameter %q", name)
		}
	}
	if len(returns) == 0 {
		return nil, errs.New(errs.KindUnknownName, "function definition must declare at least one return")
	}
	if tags == nil {
		tags = TagSet{}
	}
	return &FunctionDefinition{ParameterOrder: parameterOrder, Parameters: parameters, Returns: returns, Tags: tags}, nil
}
