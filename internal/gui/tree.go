package gui

import "github.com/saptools/sapmcp/internal/engine"

// TreeNode is one element in the object tree dump.
type TreeNode struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Children []TreeNode `json:"children,omitempty"`

	// Error annotates a node whose descendants could not be read. The
	// node itself stays in the dump; the failure is isolated.
	Error string `json:"error,omitempty"`
}

// TreeDump is the full object tree across all open windows.
type TreeDump struct {
	Windows []TreeNode `json:"windows"`
}

// ObjectTree serializes every descendant of every open window. Elements
// that fail introspection are annotated and skipped rather than aborting
// the whole dump. The engine's tree is acyclic; no cycle guard is needed.
func (f *Facade) ObjectTree(sess engine.Session) (TreeDump, error) {
	windows, err := sess.Windows()
	if err != nil {
		return TreeDump{}, err
	}
	dump := TreeDump{Windows: make([]TreeNode, 0, len(windows))}
	for _, w := range windows {
		dump.Windows = append(dump.Windows, dumpElement(w))
	}
	return dump, nil
}

func dumpElement(el engine.Element) TreeNode {
	node := TreeNode{ID: el.ID(), Type: el.Type()}
	kids, err := el.Children()
	if err != nil {
		node.Error = err.Error()
		return node
	}
	for _, k := range kids {
		node.Children = append(node.Children, dumpElement(k))
	}
	return node
}
