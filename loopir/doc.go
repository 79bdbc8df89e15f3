// Package loopir stands in for the external loop-nest IR collaborator of
// spec.md §6: "TranslationUnit, LoopKernel (with args, instructions,
// domains, temporary_variables, substitutions), ArrayArg/ValueArg/
// GlobalArg, TemporaryVariable, SubArrayRef, SubstitutionRule, Reduction
// primitive, TypeCast primitive, unique name/id generators, a kernel-merge
// operation, an iname-tagging operation, and an option to disable bounds
// checking."
//
// Grounded on loopy (github.com/inducer/loopy), the target `generate_loopy`
// (§4.6, pytato's target/loopy/codegen.py) actually builds programs for: a
// LoopKernel is an argument list, an instruction list, a set of iteration
// domains, and maps of temporaries/substitution rules, each instruction's
// right-hand side drawn from a small recursive expression algebra
// (pymbolic.primitives) of which Reduction and TypeCast are two of the
// node kinds. This package plays the same role sentra's internal/bytecode
// plays for its VM (a flat, inspectable instruction-stream IR with its own
// constant/name tables) but generalized to loopy's richer, domain-indexed
// loop-nest shape rather than a linear bytecode stream.
//
// loopir.Expr is deliberately a separate algebra from scalarexpr.Expr even
// though both are small immutable arithmetic-expression trees: scalarexpr
// is the DAG-side scalar-expression contract (IndexLambda bodies, before
// lowering), while loopir.Expr is the assignment-instruction-RHS contract
// a loop-nest kernel actually stores. loopgen's translation mapper (§4.6.1)
// is precisely the boundary that converts one into the other, the same way
// pytato's InlinedExpressionGenMapper walks a pytato scalar_expr tree and
// returns pymbolic primitives.
package loopir
