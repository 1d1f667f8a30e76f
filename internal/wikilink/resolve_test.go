package wikilink

import (
	"errors"
	"testing"

	"github.com/pfassina/wikilinks/internal/mdast"
)

// wikiDoc builds root > paragraph > text(prev), shortcut reference(label), text(next)
// and returns the tree with the ids of the three inline nodes.
func wikiDoc(prev, label, next string) (*mdast.Tree, [3]mdast.ID) {
	t := mdast.New()
	p := t.Append(t.Root(), mdast.Other{Kind: "paragraph"})
	var ids [3]mdast.ID
	ids[0] = t.Append(p, mdast.Text{Value: prev})
	ids[1] = t.Append(p, mdast.Reference{
		Identifier:    label,
		Label:         label,
		ReferenceType: mdast.ReferenceShortcut,
	})
	t.Append(ids[1], mdast.Text{Value: label})
	ids[2] = t.Append(p, mdast.Text{Value: next})
	return t, ids
}

func textOf(t *testing.T, tree *mdast.Tree, id mdast.ID) string {
	t.Helper()
	txt, ok := tree.Data(id).(mdast.Text)
	if !ok {
		t.Fatalf("node %d: got %T, want text", id, tree.Data(id))
	}
	return txt.Value
}

func TestResolve_NoShortcutIsIdentity(t *testing.T) {
	tree := mdast.New()
	p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
	tree.Append(p, mdast.Text{Value: "see ["})
	full := tree.Append(p, mdast.Reference{Identifier: "a", Label: "a", ReferenceType: mdast.ReferenceFull})
	tree.Append(full, mdast.Text{Value: "alpha"})
	tree.Append(p, mdast.Text{Value: "] and ["})
	coll := tree.Append(p, mdast.Reference{Identifier: "b", Label: "b", ReferenceType: mdast.ReferenceCollapsed})
	tree.Append(coll, mdast.Text{Value: "b"})
	tree.Append(p, mdast.Text{Value: "]"})
	tree.Append(tree.Root(), mdast.Definition{Identifier: "a", URL: "/a"})

	before := tree.Clone()
	report, err := Resolve(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !mdast.Equal(before, tree) {
		t.Error("tree changed without shortcut references")
	}
	if report.NotShortcut != 2 || len(report.Rewritten) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestResolve_UndefinedReference(t *testing.T) {
	tree, ids := wikiDoc("see [", "My Page", "] now")

	report, err := Resolve(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}

	link, ok := tree.Data(ids[1]).(mdast.Link)
	if !ok {
		t.Fatalf("got %T, want link", tree.Data(ids[1]))
	}
	if link.URL != "my-page" {
		t.Errorf("url = %q, want %q", link.URL, "my-page")
	}
	if link.Title != "My Page" {
		t.Errorf("title = %q, want %q", link.Title, "My Page")
	}
	if got := tree.Type(ids[1]); got != mdast.TypeLink {
		t.Errorf("type = %q, want link", got)
	}
	if got := textOf(t, tree, ids[0]); got != "see " {
		t.Errorf("previous = %q, want %q", got, "see ")
	}
	if got := textOf(t, tree, ids[2]); got != " now" {
		t.Errorf("next = %q, want %q", got, " now")
	}
	if got := textOf(t, tree, tree.Children(ids[1])[0]); got != "[[My Page]]" {
		t.Errorf("label = %q, want %q", got, "[[My Page]]")
	}
	if len(report.Rewritten) != 1 || report.Rewritten[0].Defined {
		t.Errorf("report = %+v", report)
	}
}

func TestResolve_DefinedReferenceIsSkipped(t *testing.T) {
	tree, ids := wikiDoc("[", "page", "]")
	tree.Append(tree.Root(), mdast.Definition{Identifier: "page", URL: "/notes/page.md"})
	before := tree.Clone()

	report, err := Resolve(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := tree.Type(ids[1]); got != mdast.TypeLinkReference {
		t.Errorf("type = %q, want linkReference", got)
	}
	if !mdast.Equal(before, tree) {
		t.Error("tree changed for a satisfied reference")
	}
	if report.Defined != 1 {
		t.Errorf("Defined = %d, want 1", report.Defined)
	}
}

func TestResolve_StripDefinitionExts(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		exts    []string
		wantURL string // "" means the reference is left alone
	}{
		{"matching extension", "/notes/page.md", []string{".md"}, "/notes/page"},
		{"second entry matches", "/notes/page.mdx", []string{".md", ".mdx"}, "/notes/page"},
		{"no matching extension", "/notes/page.md", []string{".mdx"}, ""},
		{"extension must match exactly", "/notes/page.markdown", []string{".md"}, ""},
		{"no extension", "/notes/page", []string{".md"}, ""},
		{"dotfile has no extension", "/notes/.md", []string{".md"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, ids := wikiDoc("[", "page", "]")
			def := tree.Append(tree.Root(), mdast.Definition{Identifier: "page", URL: tt.url})

			if _, err := Resolve(tree, Options{StripDefinitionExts: tt.exts}); err != nil {
				t.Fatal(err)
			}

			if d := tree.Data(def).(mdast.Definition); d.URL != tt.url {
				t.Errorf("definition url changed to %q", d.URL)
			}
			if tt.wantURL == "" {
				if got := tree.Type(ids[1]); got != mdast.TypeLinkReference {
					t.Errorf("type = %q, want linkReference", got)
				}
				return
			}
			link, ok := tree.Data(ids[1]).(mdast.Link)
			if !ok {
				t.Fatalf("got %T, want link", tree.Data(ids[1]))
			}
			if link.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", link.URL, tt.wantURL)
			}
		})
	}
}

func TestResolve_ForwardReference(t *testing.T) {
	tree := mdast.New()
	tree.Append(tree.Root(), mdast.Definition{Identifier: "page", URL: "/old.md"})
	p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
	tree.Append(p, mdast.Text{Value: "["})
	ref := tree.Append(p, mdast.Reference{Identifier: "page", Label: "Page", ReferenceType: mdast.ReferenceShortcut})
	tree.Append(ref, mdast.Text{Value: "Page"})
	tree.Append(p, mdast.Text{Value: "]"})
	// the last definition wins, even though it follows the reference
	tree.Append(tree.Root(), mdast.Definition{Identifier: "page", URL: "/new.md"})

	report, err := Resolve(tree, Options{StripDefinitionExts: []string{".md"}})
	if err != nil {
		t.Fatal(err)
	}
	link, ok := tree.Data(ref).(mdast.Link)
	if !ok {
		t.Fatalf("got %T, want link", tree.Data(ref))
	}
	if link.URL != "/new" {
		t.Errorf("url = %q, want /new", link.URL)
	}
	if len(report.Rewritten) != 1 || !report.Rewritten[0].Defined {
		t.Errorf("report = %+v", report)
	}
}

func TestResolve_DefinitionWithoutIdentifier(t *testing.T) {
	tree, ids := wikiDoc("[", "", "]")
	tree.Append(tree.Root(), mdast.Definition{URL: "/ignored"})

	if _, err := Resolve(tree, Options{TitleToPath: func(string) (string, error) { return "fallback", nil }}); err != nil {
		t.Fatal(err)
	}
	link, ok := tree.Data(ids[1]).(mdast.Link)
	if !ok {
		t.Fatalf("got %T, want link", tree.Data(ids[1]))
	}
	if link.URL != "fallback" {
		t.Errorf("url = %q, want fallback", link.URL)
	}
}

func TestResolve_TrimsOneBracket(t *testing.T) {
	tests := []struct {
		prev, next         string
		wantPrev, wantNext string
	}{
		{"text[", "]text", "text", "text"},
		{"text[[", "]]text", "text[", "]text"},
		{"[", "]", "", ""},
		{"a [b] [", "] c]", "a [b] ", " c]"},
	}

	for _, tt := range tests {
		t.Run(tt.prev+"|"+tt.next, func(t *testing.T) {
			tree, ids := wikiDoc(tt.prev, "Page", tt.next)
			if _, err := Resolve(tree, Options{}); err != nil {
				t.Fatal(err)
			}
			if got := textOf(t, tree, ids[0]); got != tt.wantPrev {
				t.Errorf("previous = %q, want %q", got, tt.wantPrev)
			}
			if got := textOf(t, tree, ids[2]); got != tt.wantNext {
				t.Errorf("next = %q, want %q", got, tt.wantNext)
			}
		})
	}
}

func TestResolve_Unbracketed(t *testing.T) {
	t.Run("no brackets", func(t *testing.T) {
		tree, _ := wikiDoc("see ", "Page", " now")
		before := tree.Clone()
		report, err := Resolve(tree, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !mdast.Equal(before, tree) {
			t.Error("tree changed")
		}
		if report.Unbracketed != 1 {
			t.Errorf("Unbracketed = %d, want 1", report.Unbracketed)
		}
	})

	t.Run("only opening bracket", func(t *testing.T) {
		tree, _ := wikiDoc("see [", "Page", " now")
		before := tree.Clone()
		if _, err := Resolve(tree, Options{}); err != nil {
			t.Fatal(err)
		}
		if !mdast.Equal(before, tree) {
			t.Error("tree changed")
		}
	})

	t.Run("missing siblings", func(t *testing.T) {
		tree := mdast.New()
		p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
		ref := tree.Append(p, mdast.Reference{Identifier: "x", Label: "x", ReferenceType: mdast.ReferenceShortcut})
		tree.Append(ref, mdast.Text{Value: "x"})
		tree.Append(p, mdast.Text{Value: "]"})
		before := tree.Clone()
		if _, err := Resolve(tree, Options{}); err != nil {
			t.Fatal(err)
		}
		if !mdast.Equal(before, tree) {
			t.Error("tree changed")
		}
	})

	t.Run("sibling is not text", func(t *testing.T) {
		tree := mdast.New()
		p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
		tree.Append(p, mdast.Other{Kind: "emphasis"})
		ref := tree.Append(p, mdast.Reference{Identifier: "x", Label: "x", ReferenceType: mdast.ReferenceShortcut})
		tree.Append(ref, mdast.Text{Value: "x"})
		tree.Append(p, mdast.Text{Value: "]"})
		before := tree.Clone()
		if _, err := Resolve(tree, Options{}); err != nil {
			t.Fatal(err)
		}
		if !mdast.Equal(before, tree) {
			t.Error("tree changed")
		}
	})
}

func TestResolve_DefinedButUnbracketed(t *testing.T) {
	tree, _ := wikiDoc("see ", "page", " now")
	tree.Append(tree.Root(), mdast.Definition{Identifier: "page", URL: "/notes/page.md"})
	before := tree.Clone()

	report, err := Resolve(tree, Options{StripDefinitionExts: []string{".md"}})
	if err != nil {
		t.Fatal(err)
	}
	if !mdast.Equal(before, tree) {
		t.Error("tree changed")
	}
	if report.Unbracketed != 1 || report.Defined != 0 || len(report.Rewritten) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestResolve_FirstChildNotText(t *testing.T) {
	tree := mdast.New()
	p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
	tree.Append(p, mdast.Text{Value: "["})
	ref := tree.Append(p, mdast.Reference{Identifier: "page", Label: "Page", ReferenceType: mdast.ReferenceShortcut})
	em := tree.Append(ref, mdast.Other{Kind: "emphasis"})
	tree.Append(em, mdast.Text{Value: "Page"})
	tail := tree.Append(ref, mdast.Text{Value: " tail"})
	tree.Append(p, mdast.Text{Value: "]"})

	if _, err := Resolve(tree, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := tree.Type(ref); got != mdast.TypeLink {
		t.Fatalf("type = %q, want link", got)
	}
	if got := tree.Data(em); got != (mdast.Other{Kind: "emphasis"}) {
		t.Errorf("first child = %+v", got)
	}
	if got := textOf(t, tree, tree.Children(em)[0]); got != "Page" {
		t.Errorf("emphasis text = %q", got)
	}
	if got := textOf(t, tree, tail); got != " tail" {
		t.Errorf("second child = %q", got)
	}
}

func TestResolve_KeepsAttrs(t *testing.T) {
	tree := mdast.New()
	p := tree.Append(tree.Root(), mdast.Other{Kind: "paragraph"})
	prev := tree.Append(p, mdast.Text{Value: "a [", Attrs: `{"position":1}`})
	ref := tree.Append(p, mdast.Reference{
		Identifier:    "page",
		Label:         "Page",
		ReferenceType: mdast.ReferenceShortcut,
		Attrs:         `{"position":2}`,
	})
	label := tree.Append(ref, mdast.Text{Value: "Page", Attrs: `{"position":3}`})
	tree.Append(p, mdast.Text{Value: "]"})

	if _, err := Resolve(tree, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := tree.Data(prev); got != (mdast.Text{Value: "a ", Attrs: `{"position":1}`}) {
		t.Errorf("previous = %+v", got)
	}
	if got := tree.Data(ref); got != (mdast.Link{URL: "page", Title: "Page", Attrs: `{"position":2}`}) {
		t.Errorf("link = %+v", got)
	}
	if got := tree.Data(label); got != (mdast.Text{Value: "[[Page]]", Attrs: `{"position":3}`}) {
		t.Errorf("label = %+v", got)
	}
}

func TestResolve_StripBrackets(t *testing.T) {
	tests := []struct {
		strip bool
		want  string
	}{
		{false, "[[Page]]"},
		{true, "Page"},
	}
	for _, tt := range tests {
		tree, ids := wikiDoc("[", "Page", "]")
		if _, err := Resolve(tree, Options{StripBrackets: tt.strip}); err != nil {
			t.Fatal(err)
		}
		if got := textOf(t, tree, tree.Children(ids[1])[0]); got != tt.want {
			t.Errorf("StripBrackets=%v: label = %q, want %q", tt.strip, got, tt.want)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	tree, _ := wikiDoc("a [", "Some Page", "] b")
	if _, err := Resolve(tree, Options{}); err != nil {
		t.Fatal(err)
	}
	once := tree.Clone()

	report, err := Resolve(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !mdast.Equal(once, tree) {
		t.Error("second run changed the tree")
	}
	if len(report.Rewritten) != 0 || report.Skipped() != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestResolve_PolicyErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	tree, ids := wikiDoc("[", "Page", "]")
	before := tree.Clone()

	_, err := Resolve(tree, Options{TitleToPath: func(string) (string, error) { return "", boom }})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !mdast.Equal(before, tree) {
		t.Error("failed node was modified")
	}
	if got := tree.Type(ids[1]); got != mdast.TypeLinkReference {
		t.Errorf("type = %q, want linkReference", got)
	}
}

func TestResolve_CustomPolicy(t *testing.T) {
	tree, ids := wikiDoc("[", "Folder/Page", "]")
	policy := func(title string) (string, error) { return "/wiki/" + title, nil }

	if _, err := Resolve(tree, Options{TitleToPath: policy}); err != nil {
		t.Fatal(err)
	}
	if link := tree.Data(ids[1]).(mdast.Link); link.URL != "/wiki/Folder/Page" {
		t.Errorf("url = %q", link.URL)
	}
}

func TestResolve_NestedReferences(t *testing.T) {
	tree := mdast.New()
	list := tree.Append(tree.Root(), mdast.Other{Kind: "list"})
	item := tree.Append(list, mdast.Other{Kind: "listItem"})
	p := tree.Append(item, mdast.Other{Kind: "paragraph"})
	var refs []mdast.ID
	for _, label := range []string{"One", "Two"} {
		tree.Append(p, mdast.Text{Value: "["})
		ref := tree.Append(p, mdast.Reference{Identifier: label, Label: label, ReferenceType: mdast.ReferenceShortcut})
		tree.Append(ref, mdast.Text{Value: label})
		refs = append(refs, ref)
	}
	tree.Append(p, mdast.Text{Value: "]"})

	report, err := Resolve(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Only the second reference has a "]" after it; the first is followed by "[".
	if got := tree.Type(refs[0]); got != mdast.TypeLinkReference {
		t.Errorf("first type = %q, want linkReference", got)
	}
	if link, ok := tree.Data(refs[1]).(mdast.Link); !ok || link.URL != "two" {
		t.Errorf("second = %+v", tree.Data(refs[1]))
	}
	if len(report.Rewritten) != 1 || report.Unbracketed != 1 {
		t.Errorf("report = %+v", report)
	}
}
