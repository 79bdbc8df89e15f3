package loopir

import (
	"fmt"
)

// NameGenerator produces fresh, never-before-seen names, grounded on
// pytools.UniqueNameGenerator exactly as preprocess.NameGenerator is -- but
// deliberately counter-suffixed (prefix, prefix_2, prefix_3, ...) rather
// than uuid-suffixed. Unlike preprocess's temp names (which only need to be
// collision-free keys into a BoundArguments map, see preprocess/namegen.go),
// the inames and instruction IDs this generator mints end up verbatim in
// generated kernel source text, and spec.md §5's ordering guarantee (c)
// requires output "reproducible bit-for-bit across runs" -- a uuid suffix
// would make every compilation produce different, undiffable kernel code
// for the same input DAG. A deterministic counter does not.
//
// loopgen's CodeGenState holds two instances built from the same seed
// names, one as the var-name generator and one as the insn-id generator
// (spec.md §6's "unique name/id generators"), so the two namespaces are
// independent of each other.
type NameGenerator struct {
	used map[string]struct{}
}

// NewNameGenerator returns a generator seeded with the given already-used
// names (e.g. every input argument and output name, so generated inames
// never shadow them).
func NewNameGenerator(seed map[string]struct{}) *NameGenerator {
	used := make(map[string]struct{}, len(seed))
	for name := range seed {
		used[name] = struct{}{}
	}
	return &NameGenerator{used: used}
}

// Generate returns a fresh name built from prefix: prefix itself if unused,
// else prefix_2, prefix_3, ... in order.
func (g *NameGenerator) Generate(prefix string) string {
	if _, ok := g.used[prefix]; !ok {
		g.used[prefix] = struct{}{}
		return prefix
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", prefix, n)
		if _, ok := g.used[candidate]; !ok {
			g.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// Reserve claims name exactly, reporting whether it was available.
func (g *NameGenerator) Reserve(name string) bool {
	if _, ok := g.used[name]; ok {
		return false
	}
	g.used[name] = struct{}{}
	return true
}

// IsUsed reports whether name has already been generated or reserved.
func (g *NameGenerator) IsUsed(name string) bool {
	_, ok := g.used[name]
	return ok
}
