package arraygraph

// InputArgumentBase is implemented by the three external-value node kinds:
// Placeholder, DataWrapper, SizeParam (spec.md §3.1 GLOSSARY).
type InputArgumentBase interface {
	Array
	isInputArgumentBase()
}

// Placeholder is a named symbolic input.
type Placeholder struct {
	base
	Name string
}

func (p *Placeholder) Accept(v Visitor) Array { return v.VisitPlaceholder(p) }
func (p *Placeholder) isInputArgumentBase()    {}

// DataRef is an opaque handle to concrete array data bound to a
// DataWrapper, later captured into preprocess's bound-arguments map
// (spec.md §4.5, §6 "Data boundary"). Its Shape/Dtype must agree with the
// declaring DataWrapper's.
type DataRef interface {
	Shape() Shape
	Dtype() Dtype
}

// DataWrapper is an opaque concrete-data reference with a declared
// shape/dtype.
type DataWrapper struct {
	base
	Name string // optional; "" if anonymous until preprocessing names it
	Data DataRef
}

func (d *DataWrapper) Accept(v Visitor) Array { return v.VisitDataWrapper(d) }
func (d *DataWrapper) isInputArgumentBase()    {}

// SizeParam is a named, scalar, integer-valued input.
type SizeParam struct {
	base
	Name string
}

func (s *SizeParam) Accept(v Visitor) Array { return v.VisitSizeParam(s) }
func (s *SizeParam) isInputArgumentBase()    {}
