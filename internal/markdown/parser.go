package markdown

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/pfassina/wikilinks/internal/mdast"
)

// Parser wraps goldmark and produces mdast trees.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(),
	}
}

// Parse parses markdown content into an mdast tree.
//
// Goldmark provides the block structure. Inline content of paragraphs and
// headings is tokenized into text, inlineCode, image, link and linkReference
// nodes, keeping every bracketed label as a reference whether or not it is
// defined. Reference definitions are consumed by goldmark during parsing, so
// they are taken from the parse context and appended to the root sorted by
// label.
func (p *Parser) Parse(content []byte) (*mdast.Tree, error) {
	fm, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	tree := mdast.New()
	if fm != nil {
		tree.Append(tree.Root(), fm.node())
	}

	ctx := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	b := &builder{src: body, tree: tree}
	b.children(doc, tree.Root())

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		tree.Append(tree.Root(), mdast.Definition{
			Identifier: normalizeIdentifier(string(ref.Label())),
			URL:        string(ref.Destination()),
			Title:      string(ref.Title()),
		})
	}

	return tree, nil
}

type builder struct {
	src  []byte
	tree *mdast.Tree
}

func (b *builder) children(n gmast.Node, parent mdast.ID) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.block(c, parent)
	}
}

func (b *builder) block(n gmast.Node, parent mdast.ID) {
	switch node := n.(type) {
	case *gmast.Paragraph, *gmast.TextBlock:
		// Definitions are cut out of their paragraph, which may leave it empty.
		if n.Lines().Len() == 0 {
			return
		}
		id := b.tree.Append(parent, mdast.Other{Kind: "paragraph"})
		b.inline(id, b.lines(n))
	case *gmast.Heading:
		id := b.tree.Append(parent, mdast.Other{Kind: "heading", Attrs: attrs(map[string]any{"depth": node.Level})})
		b.inline(id, b.lines(n))
	case *gmast.FencedCodeBlock:
		o := mdast.Other{Kind: "code", Value: b.lines(n)}
		if lang := string(node.Language(b.src)); lang != "" {
			o.Attrs = attrs(map[string]any{"lang": lang})
		}
		b.tree.Append(parent, o)
	case *gmast.CodeBlock:
		b.tree.Append(parent, mdast.Other{Kind: "code", Value: b.lines(n)})
	case *gmast.HTMLBlock:
		b.tree.Append(parent, mdast.Other{Kind: "html", Value: b.lines(n)})
	case *gmast.ThematicBreak:
		b.tree.Append(parent, mdast.Other{Kind: "thematicBreak"})
	case *gmast.List:
		a := map[string]any{"ordered": node.IsOrdered()}
		if node.IsOrdered() {
			a["start"] = node.Start
		}
		id := b.tree.Append(parent, mdast.Other{Kind: "list", Attrs: attrs(a)})
		b.children(n, id)
	case *gmast.ListItem:
		id := b.tree.Append(parent, mdast.Other{Kind: "listItem"})
		b.children(n, id)
	case *gmast.Blockquote:
		id := b.tree.Append(parent, mdast.Other{Kind: "blockquote"})
		b.children(n, id)
	default:
		kind := n.Kind().String()
		id := b.tree.Append(parent, mdast.Other{Kind: strings.ToLower(kind[:1]) + kind[1:]})
		b.children(n, id)
	}
}

// lines joins the source lines of a block node.
func (b *builder) lines(n gmast.Node) string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(b.src)), "\r\n"))
	}
	return strings.Join(out, "\n")
}

func attrs(m map[string]any) string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

// normalizeIdentifier folds a label the way mdast identifiers are derived:
// whitespace runs collapse to one space and case is dropped.
func normalizeIdentifier(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
