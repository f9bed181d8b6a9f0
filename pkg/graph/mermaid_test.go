package graph

import (
	"strings"
	"testing"
)

func TestMermaidFormatNode(t *testing.T) {
	f := MermaidFormatter{}
	got := f.FormatNode(Node{Package: "fsl", Name: "bet"})
	want := `  fsl_bet["fsl/bet"]`
	if got != want {
		t.Errorf("FormatNode() = %q, want %q", got, want)
	}
}

func TestMermaidFormatEdge(t *testing.T) {
	f := MermaidFormatter{}
	if got, want := f.FormatEdge("a", "b"), "  a --> b"; got != want {
		t.Errorf("FormatEdge() = %q, want %q", got, want)
	}
}

func TestMermaidGenerateDiagram(t *testing.T) {
	nodes := []Node{
		{Package: "fsl", Name: "bet", Outputs: []string{"/out/bet"}},
		{Package: "fsl", Name: "fast", Inputs: []string{"/out/bet/brain.nii.gz"}, Outputs: []string{"/out/fast"}},
		{Package: "ants", Name: "reg", Inputs: []string{"/out/bet/brain.nii.gz", "/out/fast/seg.nii.gz"}},
	}
	for i := range nodes {
		nodes[i].Inputs = fromSlash(nodes[i].Inputs)
		nodes[i].Outputs = fromSlash(nodes[i].Outputs)
	}

	got := MermaidFormatter{Style: LeftRight}.GenerateDiagram(nodes, BuildDependencies(nodes))
	want := strings.Join([]string{
		"graph LR",
		`  fsl_bet["fsl/bet"]`,
		`  fsl_fast["fsl/fast"]`,
		`  ants_reg["ants/reg"]`,
		"  fsl_bet --> ants_reg",
		"  fsl_bet --> fsl_fast",
		"  fsl_fast --> ants_reg",
	}, "\n")

	if got != want {
		t.Errorf("GenerateDiagram() =\n%s\nwant\n%s", got, want)
	}
}

func TestMermaidHeaderMatchesStyle(t *testing.T) {
	for _, s := range Styles() {
		t.Run(s.String(), func(t *testing.T) {
			got := MermaidFormatter{Style: s}.GenerateDiagram(nil, nil)
			if got != "graph "+s.String() {
				t.Errorf("GenerateDiagram() = %q, want %q", got, "graph "+s.String())
			}
		})
	}
}

func TestMermaidDuplicateIdentityCoexists(t *testing.T) {
	nodes := []Node{
		{Package: "fsl", Name: "bet", Outputs: []string{"/out/1"}},
		{Package: "fsl", Name: "bet", Outputs: []string{"/out/2"}},
	}
	got := MermaidFormatter{}.GenerateDiagram(nodes, BuildDependencies(nodes))

	if n := strings.Count(got, `  fsl_bet["fsl/bet"]`); n != 2 {
		t.Errorf("diagram has %d fsl_bet node lines, want 2:\n%s", n, got)
	}
}

func TestMermaidLabelNotEscaped(t *testing.T) {
	got := MermaidFormatter{}.FormatNode(Node{Package: `a"b`, Name: "c"})
	if got != `  a"b_c["a"b/c"]` {
		t.Errorf("FormatNode() = %q, labels are emitted verbatim", got)
	}
}
