package upnp

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is one element of a parsed device-description document.
//
// Tag and attribute names are canonicalized before the tree is built: any
// namespace qualifier is stripped, so "device:friendlyName", "u:friendlyName"
// and plain "friendlyName" all end up as "friendlyName". Downstream matching
// only ever compares unqualified names.
type Node struct {
	// Name is the unqualified element name
	Name string

	// Attr maps unqualified attribute names to values
	Attr map[string]string

	// Text is the element character data, leading/trailing space trimmed
	Text string

	// Children are the direct child elements in document order
	Children []*Node
}

// decodeTree parses an XML document into a Node tree and returns its root
// element. Vendors ship description documents with inconsistent namespace
// prefixes, so names are stripped of any qualifier while decoding.
func decodeTree(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{Name: localName(t.Name)}
			for _, a := range t.Attr {
				// xmlns declarations are namespace plumbing, not data
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				if node.Attr == nil {
					node.Attr = make(map[string]string)
				}
				node.Attr[localName(a.Name)] = a.Value
			}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				node := stack[len(stack)-1]
				node.Text += strings.TrimSpace(string(t))
			}
		}
	}

	if root == nil {
		return nil, errEmptyDocument
	}
	return root, nil
}

// localName reduces an xml.Name to its unqualified local part. The decoder
// already splits declared prefixes into Name.Space; undeclared prefixes can
// survive inside Local, so those are stripped here as well.
func localName(name xml.Name) string {
	local := name.Local
	if i := strings.LastIndexByte(local, ':'); i >= 0 {
		local = local[i+1:]
	}
	return local
}

// First returns the first element named name in a depth-first, document-order
// traversal of the subtree rooted at n (including n itself), or nil if the
// subtree contains no such element. First match wins; no other priority is
// defined among multiple candidates.
func (n *Node) First(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.First(name); found != nil {
			return found
		}
	}
	return nil
}

// FirstFunc returns the first element in a depth-first, document-order
// traversal of the subtree rooted at n for which match returns true.
func (n *Node) FirstFunc(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, child := range n.Children {
		if found := child.FirstFunc(match); found != nil {
			return found
		}
	}
	return nil
}

// ChildText returns the text of the first descendant named name, or "" if
// there is none.
func (n *Node) ChildText(name string) string {
	if found := n.First(name); found != nil {
		return found.Text
	}
	return ""
}
