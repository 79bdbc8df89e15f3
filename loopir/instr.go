package loopir

// Instruction is a single kernel assignment `Assignee = Expr`, run within
// the inames listed in WithinInames, after every instruction ID in
// DependsOn has executed (§4.6.3 add_store: "Produce the assignment ...
// Attach the resulting instruction's depends_on to the expression's
// accumulated dependencies").
type Instruction struct {
	ID           string
	Assignee     Expr
	Expr         Expr
	WithinInames []string
	DependsOn    []string
}

// SubArrayRef names a group of inames together with a subscript expression
// over them, the argument-passing convention loopy uses at a call site
// (§4.6 "wires inputs via sub-array-refs" for a LoopyCall). Defined here
// for completeness of the external contract (spec.md §6); arraygraph has
// no LoopyCall node variant (see preprocess/doc.go), and nothing in this
// module constructs a SubArrayRef.
type SubArrayRef struct {
	Inames    []string
	Subscript *Subscript
}

// SubstitutionRule is a named, parameterized expression macro: reading it
// is a call `Name(args...)` that expands to Expr with Arguments bound
// positionally (§4.6 selection rule: "ImplSubstitution tag emits a
// substitution rule"; pytato's add_substitution).
type SubstitutionRule struct {
	Name      string
	Arguments []string
	Expr      Expr
}
