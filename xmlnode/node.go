// Package xmlnode is a generic view over the XML fragments the NUnit engine
// emits. Event payloads are heterogeneous (attributes appear and disappear
// between engine versions), so instead of one struct per fragment shape the
// adapter parses into a recursive node and reads attributes lazily.
package xmlnode

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Node is a single parsed XML element.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Node     `xml:",any"`
}

// Parse parses a standalone XML fragment into its root node.
func Parse(raw string) (*Node, error) {
	var n Node
	if err := xml.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("failed to parse XML fragment: %w", err)
	}
	return &n, nil
}

// Name returns the element's local tag name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the named attribute's value, or "" when absent.
func (n *Node) Attr(name string) string {
	value, _ := n.AttrOK(name)
	return value
}

// AttrOK returns the named attribute's value and whether it is present.
func (n *Node) AttrOK(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given tag name, or nil.
func (n *Node) Child(name string) *Node {
	for i := range n.Children {
		if n.Children[i].Name() == name {
			return &n.Children[i]
		}
	}
	return nil
}

// ChildText returns the chardata of the first direct child with the given
// tag name, and whether such a child exists.
func (n *Node) ChildText(name string) (string, bool) {
	c := n.Child(name)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// Descend follows a chain of child tag names and returns the node at the end
// of the path, or nil when any link is missing.
func (n *Node) Descend(path ...string) *Node {
	current := n
	for _, name := range path {
		current = current.Child(name)
		if current == nil {
			return nil
		}
	}
	return current
}

// DescendantText collects, in document order, the chardata of every node
// reachable by the given path where the final path element may repeat.
// Descend("assertions", "assertion", "stack-trace") returns one entry per
// assertion carrying a stack-trace child.
func (n *Node) DescendantText(path ...string) []string {
	if len(path) == 0 {
		return nil
	}

	nodes := []*Node{n}
	for _, name := range path {
		var next []*Node
		for _, parent := range nodes {
			for i := range parent.Children {
				if parent.Children[i].Name() == name {
					next = append(next, &parent.Children[i])
				}
			}
		}
		nodes = next
	}

	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		texts = append(texts, node.Text)
	}
	return texts
}

// InnerText returns the node's own trimmed chardata.
func (n *Node) InnerText() string {
	return strings.TrimSpace(n.Text)
}
