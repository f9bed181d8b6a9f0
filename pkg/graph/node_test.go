package graph

import "testing"

func TestNodeIdentity(t *testing.T) {
	n := Node{Package: "fsl", Name: "bet"}

	if got := n.ID(); got != "fsl_bet" {
		t.Errorf("ID() = %q, want %q", got, "fsl_bet")
	}
	if got := n.Label(); got != "fsl/bet" {
		t.Errorf("Label() = %q, want %q", got, "fsl/bet")
	}
}

func TestNodeRootOutput(t *testing.T) {
	tests := []struct {
		name     string
		outputs  []string
		wantRoot string
		wantOK   bool
	}{
		{"no outputs", nil, "", false},
		{"single", []string{"/out/a"}, "/out/a", true},
		{"first wins", []string{"/out/a", "/out/b"}, "/out/a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, ok := Node{Outputs: tt.outputs}.RootOutput()
			if root != tt.wantRoot || ok != tt.wantOK {
				t.Errorf("RootOutput() = (%q, %v), want (%q, %v)", root, ok, tt.wantRoot, tt.wantOK)
			}
		})
	}
}

func TestNewNodeCopiesSlices(t *testing.T) {
	inputs := []string{"/in/a"}
	outputs := []string{"/out/a"}
	n := newNode("p", "n", inputs, outputs)

	inputs[0] = "/changed"
	outputs[0] = "/changed"

	if n.Inputs[0] != "/in/a" {
		t.Errorf("Inputs[0] = %q, want %q", n.Inputs[0], "/in/a")
	}
	if n.Outputs[0] != "/out/a" {
		t.Errorf("Outputs[0] = %q, want %q", n.Outputs[0], "/out/a")
	}
}
