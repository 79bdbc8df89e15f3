// Package transform implements the memoized visitor framework array graphs
// are rewritten and inspected through (spec.md §3.3, C3): a copy-and-cache
// rewriter, a cached walk, a bottom-up combine, structural deduplication,
// input/dependency collection, and a deterministic topological ordering.
//
// Grounded on sentra's internal/compiler/compiler.go visitor-dispatch idiom
// (an AST walked by a struct implementing the Expr/Stmt visitor
// interfaces, accumulating into a Chunk) and on pytato's
// transform/__init__.py (CopyMapper, CachedWalkMapper, CombineMapper,
// DependencyCollector). lvlath's dfs/topological.go supplied the
// Kahn's-algorithm shape for TopologicalOrder, adapted to array-graph
// dependency edges and a lexicographic tie-break for determinism
// (spec.md §9).
//
// Every mapper here caches by arraygraph.Array identity (a Go interface
// value wrapping a pointer), not a synthetic integer id -- see
// arraygraph's doc.go for why that substitution is safe.
package transform
