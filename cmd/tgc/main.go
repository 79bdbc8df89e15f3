// Command tgc is a small demonstration driver for the tensorgraph
// pipeline: build a DAG, inline its calls, preprocess it, and lower it to
// a loop-nest kernel.
package main

import (
	"fmt"
	"os"

	"tensorgraph/arraygraph"
	"tensorgraph/inline"
	"tensorgraph/loopgen"
	"tensorgraph/preprocess"
	"tensorgraph/scalarexpr"
)

// commands mirrors cmd/sentra/main.go's command-table idiom: a flat map
// from subcommand name to handler, looked up once in main and otherwise
// left alone (no alias table, no flag parsing library -- this demo takes
// no arguments a subcommand would need).
var commands = map[string]func() error{
	"run-demo":    runDemo,
	"dump-kernel": dumpKernel,
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "tgc: unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
	if err := cmd(); err != nil {
		fmt.Fprintf(os.Stderr, "tgc: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("usage: tgc <command>")
	fmt.Println("commands:")
	fmt.Println("  run-demo     build, inline, preprocess, and lower a demo graph")
	fmt.Println("  dump-kernel  run the demo and print the generated kernel")
}

// buildDemoGraph constructs a Placeholder, reshapes it, and wraps the
// reshape in a FunctionDefinition/Call pair tagged for inlining -- the
// smallest graph that exercises a call site (SPEC_FULL.md §4.11).
func buildDemoGraph() (*arraygraph.DictOfNamedArrays, error) {
	shape, err := arraygraph.NewShape(nil, arraygraph.IntShape(2), arraygraph.IntShape(6))
	if err != nil {
		return nil, err
	}
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	if err != nil {
		return nil, err
	}

	param, err := arraygraph.NewPlaceholder("p", shape, arraygraph.Float32, nil, nil)
	if err != nil {
		return nil, err
	}
	flatShape, err := arraygraph.NewShape(nil, arraygraph.IntShape(12))
	if err != nil {
		return nil, err
	}
	reshaped, err := arraygraph.NewReshape(param, flatShape, arraygraph.OrderC, nil)
	if err != nil {
		return nil, err
	}
	doubled, err := arraygraph.NewIndexLambda(flatShape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("r"), Right: scalarexpr.Operand("r")},
		map[string]arraygraph.Array{"r": reshaped}, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	fn, err := arraygraph.NewFunctionDefinition(
		[]string{"p"},
		map[string]*arraygraph.Placeholder{"p": param},
		map[string]arraygraph.Array{"doubled": doubled},
		nil,
	)
	if err != nil {
		return nil, err
	}
	call := arraygraph.NewCall(fn, map[string]arraygraph.Array{"p": x},
		arraygraph.NewTagSet(arraygraph.InlineCallTag{}))
	result, ok := call.Get("doubled")
	if !ok {
		return nil, fmt.Errorf("demo graph: call site lost return %q", "doubled")
	}

	return arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": result}), nil
}

// pipeline runs the demo graph through inlining, preprocessing, and
// loop-nest generation, returning the bound program.
func pipeline() (*loopgen.BoundProgram, error) {
	outputs, err := buildDemoGraph()
	if err != nil {
		return nil, err
	}

	inlined := make(map[string]arraygraph.Array, len(outputs.Names()))
	for _, name := range outputs.Names() {
		a, _ := outputs.Get(name)
		inlined[name] = inline.InlineCalls(a)
	}
	inlinedOutputs := arraygraph.NewDictOfNamedArrays(outputs.Names(), inlined)

	pre, err := preprocess.Run(inlinedOutputs)
	if err != nil {
		return nil, err
	}

	return loopgen.Generate(pre, loopgen.Target{}, loopgen.Options{}, "tgc_demo", nil, nil)
}

func runDemo() error {
	program, err := pipeline()
	if err != nil {
		return err
	}
	kernel := program.Unit.Entrypoint()
	fmt.Printf("generated kernel %q: %d instruction(s), %d domain(s)\n",
		kernel.Name, len(kernel.Instructions), len(kernel.Domains))
	return nil
}

func dumpKernel() error {
	program, err := pipeline()
	if err != nil {
		return err
	}
	kernel := program.Unit.Entrypoint()

	fmt.Printf("kernel %q\n", kernel.Name)
	fmt.Println("args:")
	for _, arg := range kernel.Args {
		fmt.Printf("  %s\n", arg.ArgName())
	}
	fmt.Println("instructions:")
	for _, instr := range kernel.Instructions {
		fmt.Printf("  [%s] within %v depends_on %v\n", instr.ID, instr.WithinInames, instr.DependsOn)
	}
	fmt.Printf("domains: %d\n", len(kernel.Domains))
	return nil
}
