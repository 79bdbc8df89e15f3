// Package loopgen implements loop-nest lowering (spec.md §4.6, C8): walking
// a preprocessed array DAG and producing, for each node, an
// ImplementedResult, then emitting stores/substitutions into a loopir
// kernel until every output has exactly one.
//
// Grounded directly on pytato's target/loopy/codegen.py: CodeGenState
// (state.go) mirrors its dataclass of the same name; ImplementedResult,
// StoredResult, InlinedResult, SubstitutionRuleResult (result.go) mirror
// its classes of the same names; the scalar-expression translation mapper
// (exprgen.go) mirrors InlinedExpressionGenMapper; addStore/addSubstitution
// (store.go) mirror add_store/add_substitution; domainForShape (domain.go)
// mirrors domain_for_shape, built atop polyhedral.FromBox; the top-level
// Generate (generate.go) mirrors generate_loopy.
//
// As in preprocess and lower, cross-algebra translation (scalarexpr.Expr
// bodies -> loopir.Expr instruction right-hand sides) is a plain recursive
// function with a type switch rather than an implementation of
// scalarexpr.Visitor: Visitor's methods are fixed to return scalarexpr.Expr,
// so a mapper translating into a different target algebra can't implement
// that interface (the same reason lower.Lower and preprocess's rename pass
// are plain functions/CopyMapper overrides rather than foreign-interface
// implementations).
package loopgen
