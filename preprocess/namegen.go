package preprocess

import (
	"fmt"

	"github.com/google/uuid"

	"tensorgraph/arraygraph"
	"tensorgraph/errs"
)

// NameGenerator produces names guaranteed not to collide with any name
// seen so far, grounded on pytools.UniqueNameGenerator (used throughout
// pytato's codegen.py for exactly this purpose).
//
// Generate suffixes with a uuid rather than a per-prefix counter: preprocess
// runs are meant to be composable (spec.md §4.5's BoundArguments from one
// Run can end up spliced into a larger program alongside the output of
// another Run, e.g. when loopgen later merges kernels from separate
// compilation units), and a monotonic counter only guarantees uniqueness
// within a single NameGenerator instance. A uuid suffix needs no shared
// counter state across those runs to stay collision-free.
type NameGenerator struct {
	used map[string]struct{}
}

// NewNameGenerator returns a generator seeded with the given already-used
// names (spec.md §4.5 "seeded with observed input names").
func NewNameGenerator(seed map[string]struct{}) *NameGenerator {
	used := make(map[string]struct{}, len(seed))
	for name := range seed {
		used[name] = struct{}{}
	}
	return &NameGenerator{used: used}
}

// Reserve claims name exactly, failing if it is already taken (spec.md
// §4.5 "user-provided name tags ... are honored and checked for
// conflict").
func (g *NameGenerator) Reserve(name string) error {
	if _, ok := g.used[name]; ok {
		return errs.New(errs.KindNameClash, "name %q is already in use", name)
	}
	g.used[name] = struct{}{}
	return nil
}

// Generate returns a fresh name built from prefix, never previously
// returned or reserved.
func (g *NameGenerator) Generate(prefix string) string {
	for {
		candidate := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
		if _, ok := g.used[candidate]; !ok {
			g.used[candidate] = struct{}{}
			return candidate
		}
	}
}

func namedTag(tags arraygraph.TagSet) (arraygraph.Named, bool) {
	for t := range tags {
		if n, ok := t.(arraygraph.Named); ok {
			return n, true
		}
	}
	return arraygraph.Named{}, false
}

func prefixNamedTag(tags arraygraph.TagSet) (arraygraph.PrefixNamed, bool) {
	for t := range tags {
		if n, ok := t.(arraygraph.PrefixNamed); ok {
			return n, true
		}
	}
	return arraygraph.PrefixNamed{}, false
}

// nameForDataWrapper picks the replacement Placeholder's name for expr,
// honoring a Named tag (exact, conflict-checked), a PrefixNamed tag
// (generated from its prefix), expr's own pre-set Name, or else
// defaultPrefix (spec.md §4.5; pytato's _generate_name_for_temp).
func nameForDataWrapper(expr *arraygraph.DataWrapper, gen *NameGenerator, defaultPrefix string) (string, error) {
	if n, ok := namedTag(expr.Tags()); ok {
		if err := gen.Reserve(n.Name); err != nil {
			return "", err
		}
		return n.Name, nil
	}
	if p, ok := prefixNamedTag(expr.Tags()); ok {
		return gen.Generate(p.Prefix), nil
	}
	if expr.Name != "" {
		if err := gen.Reserve(expr.Name); err != nil {
			return "", err
		}
		return expr.Name, nil
	}
	return gen.Generate(defaultPrefix), nil
}
