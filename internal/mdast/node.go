package mdast

// Node types as they appear in mdast.
const (
	TypeRoot          = "root"
	TypeDefinition    = "definition"
	TypeLinkReference = "linkReference"
	TypeLink          = "link"
	TypeText          = "text"
)

// Reference types of a linkReference node.
const (
	ReferenceShortcut  = "shortcut"
	ReferenceCollapsed = "collapsed"
	ReferenceFull      = "full"
)

// Data is the kind-specific payload of a node. The set of implementations is
// closed: Definition, Reference, Link, Text and Other.
type Data interface {
	Type() string
	isData()
}

// Every variant keeps the fields it does not model (position, data, depth,
// ...) in Attrs as a raw JSON object, so a decoded tree encodes back without
// losing them. Attrs never holds a field the variant models.

// Definition declares identifier -> url.
type Definition struct {
	Identifier string
	URL        string
	Title      string
	Attrs      string
}

// Reference is a linkReference placeholder. Its children hold the label content.
type Reference struct {
	Identifier    string
	Label         string
	ReferenceType string
	Attrs         string
}

// Link is a resolved hyperlink.
type Link struct {
	URL   string
	Title string
	Attrs string
}

// Text is a plain text leaf.
type Text struct {
	Value string
	Attrs string
}

// Other carries every node type the resolver does not inspect
// (root, paragraph, heading, code, yaml, ...).
type Other struct {
	Kind  string
	Value string
	Attrs string // e.g. {"depth":2}
}

func (Definition) Type() string { return TypeDefinition }
func (Reference) Type() string  { return TypeLinkReference }
func (Link) Type() string       { return TypeLink }
func (Text) Type() string       { return TypeText }
func (o Other) Type() string    { return o.Kind }

func (Definition) isData() {}
func (Reference) isData()  {}
func (Link) isData()       {}
func (Text) isData()       {}
func (Other) isData()      {}
