package arraygraph

import "sort"

// NamedArrayResults is implemented by the two containers that expose
// several named Array results: DictOfNamedArrays and Call (spec.md §3.1).
type NamedArrayResults interface {
	Get(name string) (Array, bool)
	Names() []string
}

// DictOfNamedArrays is an ordered name->Array container used to express
// multi-output computations (spec.md §3.1).
type DictOfNamedArrays struct {
	order   []string
	entries map[string]Array
}

// NewDictOfNamedArrays builds a DictOfNamedArrays preserving the insertion
// order of names.
func NewDictOfNamedArrays(names []string, entries map[string]Array) *DictOfNamedArrays {
	order := make([]string, len(names))
	copy(order, names)
	m := make(map[string]Array, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &DictOfNamedArrays{order: order, entries: m}
}

func (d *DictOfNamedArrays) Get(name string) (Array, bool) {
	a, ok := d.entries[name]
	return a, ok
}

func (d *DictOfNamedArrays) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// SortedNames returns the contained names sorted lexicographically,
// independent of insertion order (used by deterministic joins).
func (d *DictOfNamedArrays) SortedNames() []string {
	out := d.Names()
	sort.Strings(out)
	return out
}

func (d *DictOfNamedArrays) isArrayOrNames() {}
