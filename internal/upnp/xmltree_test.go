package upnp

import (
	"strings"
	"testing"
)

func TestDecodeTree_NamespaceStripping(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{
			name: "declared prefixes",
			xml: `<root xmlns="urn:schemas-upnp-org:device-1-0" xmlns:d="urn:vendor">
				<d:device><d:friendlyName>TV</d:friendlyName></d:device>
			</root>`,
		},
		{
			name: "undeclared prefixes",
			xml:  `<root><device:device><device:friendlyName>TV</device:friendlyName></device:device></root>`,
		},
		{
			name: "no prefixes",
			xml:  `<root><device><friendlyName>TV</friendlyName></device></root>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := decodeTree(strings.NewReader(tt.xml))
			if err != nil {
				t.Fatalf("decodeTree() error = %v", err)
			}
			device := root.First("device")
			if device == nil {
				t.Fatal("First(device) = nil, want node")
			}
			if got := device.ChildText("friendlyName"); got != "TV" {
				t.Errorf("ChildText(friendlyName) = %q, want %q", got, "TV")
			}
		})
	}
}

func TestDecodeTree_AttributesStripped(t *testing.T) {
	doc := `<svc ns:serviceType="urn:x" xmlns:ns="urn:vendor"><child/></svc>`
	root, err := decodeTree(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decodeTree() error = %v", err)
	}
	if got := root.Attr["serviceType"]; got != "urn:x" {
		t.Errorf("Attr[serviceType] = %q, want %q", got, "urn:x")
	}
	if _, ok := root.Attr["xmlns"]; ok {
		t.Error("xmlns declaration leaked into attribute map")
	}
}

func TestDecodeTree_TextTrimmed(t *testing.T) {
	root, err := decodeTree(strings.NewReader("<name>\n\t  Living Room TV  \n</name>"))
	if err != nil {
		t.Fatalf("decodeTree() error = %v", err)
	}
	if root.Text != "Living Room TV" {
		t.Errorf("Text = %q, want %q", root.Text, "Living Room TV")
	}
}

func TestDecodeTree_Errors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{name: "empty document", xml: ""},
		{name: "whitespace only", xml: "   \n  "},
		{name: "unclosed element", xml: "<root><device>"},
		{name: "not XML at all", xml: "404 page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeTree(strings.NewReader(tt.xml)); err == nil {
				t.Error("decodeTree() error = nil, want error")
			}
		})
	}
}

func TestNode_FirstDocumentOrder(t *testing.T) {
	doc := `<list>
		<service><id>one</id></service>
		<service><id>two</id></service>
	</list>`
	root, err := decodeTree(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decodeTree() error = %v", err)
	}

	// First match in document order wins
	first := root.First("service")
	if first == nil {
		t.Fatal("First(service) = nil")
	}
	if got := first.ChildText("id"); got != "one" {
		t.Errorf("first service id = %q, want %q", got, "one")
	}
}

func TestNode_FirstFuncDepthFirst(t *testing.T) {
	doc := `<root>
		<a><target depth="nested"/></a>
		<target depth="shallow"/>
	</root>`
	root, err := decodeTree(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decodeTree() error = %v", err)
	}

	// Depth-first traversal reaches the nested target before the later
	// sibling at the top level
	found := root.FirstFunc(func(n *Node) bool { return n.Name == "target" })
	if found == nil {
		t.Fatal("FirstFunc() = nil")
	}
	if got := found.Attr["depth"]; got != "nested" {
		t.Errorf("matched target depth = %q, want %q", got, "nested")
	}
}

func TestNode_FirstNilReceiver(t *testing.T) {
	var n *Node
	if got := n.First("anything"); got != nil {
		t.Errorf("nil.First() = %v, want nil", got)
	}
}
