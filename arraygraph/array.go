package arraygraph

// Array is an immutable array-expression node (spec.md §3.1). All variants
// embed base and so share Shape/Dtype/Axes/Tags/NonEqualityTags for free
// via Go's method promotion; Accept is implemented per-variant for visitor
// dispatch (see visitor.go).
type Array interface {
	Accept(v Visitor) Array
	Shape() Shape
	Dtype() Dtype
	Axes() []Axis
	Tags() TagSet
	NonEqualityTags() TagSet
	isArray()
	isArrayOrNames()
}

// ArrayOrNames is the broader sum type mappers traverse: either a single
// Array or a DictOfNamedArrays (spec.md §4.1, matching pytato's
// ArrayOrNames alias).
type ArrayOrNames interface {
	isArrayOrNames()
}

// base holds the fields common to every Array variant (spec.md §3.1).
// Embedded by value so each node literal owns independent field storage.
type base struct {
	shape           Shape
	dtype           Dtype
	axes            []Axis
	tags            TagSet
	nonEqualityTags TagSet
}

func (b *base) Shape() Shape              { return b.shape }
func (b *base) Dtype() Dtype              { return b.dtype }
func (b *base) Axes() []Axis              { return b.axes }
func (b *base) Tags() TagSet              { return b.tags }
func (b *base) NonEqualityTags() TagSet   { return b.nonEqualityTags }
func (b *base) isArray()                  {}
func (b *base) isArrayOrNames()           {}

func newBase(shape Shape, dtype Dtype, axes []Axis, tags, nonEqualityTags TagSet) base {
	if axes == nil {
		axes = NewAxes(len(shape))
	}
	if tags == nil {
		tags = TagSet{}
	}
	if nonEqualityTags == nil {
		nonEqualityTags = TagSet{}
	}
	return base{shape: shape, dtype: dtype, axes: axes, tags: tags, nonEqualityTags: nonEqualityTags}
}
