package graph

// Node is the record of one observed execution.
// Nodes are created when an execution is run and never modified afterwards.
type Node struct {
	Package string   // Tool package from the execution metadata
	Name    string   // Tool name from the execution metadata
	Inputs  []string // Input paths in registration order
	Outputs []string // Resolved output paths in registration order
}

// ID returns the diagram identifier, package + "_" + name.
// It is not unique across repeated executions of the same tool.
func (n Node) ID() string { return n.Package + "_" + n.Name }

// Label returns the display label, package + "/" + name.
func (n Node) Label() string { return n.Package + "/" + n.Name }

// RootOutput returns the node's first output, which serves as its root output
// directory during dependency inference. Nodes without outputs return false.
func (n Node) RootOutput() (string, bool) {
	if len(n.Outputs) == 0 {
		return "", false
	}
	return n.Outputs[0], true
}

func newNode(pkg, name string, inputs, outputs []string) Node {
	return Node{
		Package: pkg,
		Name:    name,
		Inputs:  append([]string(nil), inputs...),
		Outputs: append([]string(nil), outputs...),
	}
}
