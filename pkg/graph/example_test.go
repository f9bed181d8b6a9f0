package graph_test

import (
	"context"
	"fmt"

	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/runner"
	"github.com/styx-api/styxgraph/pkg/runner/dry"
)

func ExampleRunner() {
	base := dry.New("/data", nil)
	base.Session = "s"
	r := graph.NewRunner(base, graph.LeftRight)
	ctx := context.Background()

	bet := r.StartExecution(runner.Metadata{Package: "fsl", Name: "bet"})
	t1 := bet.InputFile("/subjects/01/t1.nii.gz", runner.InputOptions{})
	brain := bet.OutputFile("brain", false)
	_ = bet.Run(ctx, []string{"bet", t1, brain}, runner.Handlers{})

	fast := r.StartExecution(runner.Metadata{Package: "fsl", Name: "fast"})
	in := fast.InputFile(brain, runner.InputOptions{})
	seg := fast.OutputFile("seg", false)
	_ = fast.Run(ctx, []string{"fast", "-o", seg, in}, runner.Handlers{})

	fmt.Println(r.GenerateDiagram())
	// Output:
	// graph LR
	//   fsl_bet["fsl/bet"]
	//   fsl_fast["fsl/fast"]
	//   fsl_bet --> fsl_fast
}

func ExampleBuildDependencies() {
	nodes := []graph.Node{
		{Package: "a", Name: "producer", Outputs: []string{"/out/a"}},
		{Package: "b", Name: "sibling", Inputs: []string{"/out/ab/file.txt"}},
		{Package: "c", Name: "consumer", Inputs: []string{"/out/a/file.txt"}},
	}

	for _, e := range graph.BuildDependencies(nodes).Sorted() {
		fmt.Println(e.From, "->", e.To)
	}
	// Output:
	// a_producer -> c_consumer
}

func ExampleMermaidFormatter() {
	nodes := []graph.Node{{Package: "fsl", Name: "bet"}}
	f := graph.MermaidFormatter{Style: graph.TopDown}
	fmt.Println(f.GenerateDiagram(nodes, nil))
	// Output:
	// graph TD
	//   fsl_bet["fsl/bet"]
}
