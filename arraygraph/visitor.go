package arraygraph

// Visitor dispatches over the Array sum type, one method per variant
// (spec.md §9 "Sum-type node algebra": "the many map_* methods ... become a
// tagged-variant dispatch"). Call/FunctionDefinition/DictOfNamedArrays are
// not Array variants (they are containers/closures over the DAG) and are
// handled by dedicated methods on package transform's mappers instead of
// here, mirroring pytato's CopyMapper which has both Array-variant
// map_* methods and separate map_call/map_function_definition/
// map_dict_of_named_arrays methods.
type Visitor interface {
	VisitPlaceholder(*Placeholder) Array
	VisitDataWrapper(*DataWrapper) Array
	VisitSizeParam(*SizeParam) Array
	VisitIndexLambda(*IndexLambda) Array
	VisitEinsum(*Einsum) Array
	VisitReshape(*Reshape) Array
	VisitAxisPermutation(*AxisPermutation) Array
	VisitStack(*Stack) Array
	VisitConcatenate(*Concatenate) Array
	VisitRoll(*Roll) Array
	VisitBasicIndex(*BasicIndex) Array
	VisitAdvancedIndex(*AdvancedIndex) Array
	VisitNamedCallResult(*NamedCallResult) Array
}
