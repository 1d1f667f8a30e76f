// Package wikilink turns [[wiki link]] shortcut references in an mdast tree
// into resolved links.
//
// Upstream parsers tokenize "[[Some Page]]" as a text node ending in "[",
// a shortcut linkReference labelled "Some Page", and a text node starting
// with "]". Resolve collects the document's definitions, then rewrites every
// such reference in place: the outer brackets are trimmed from the text
// siblings and the reference becomes a link whose URL comes from a matching
// definition or from the configured TitleToPath policy.
package wikilink

import (
	"fmt"
	"path"
	"strings"

	"github.com/pfassina/wikilinks/internal/mdast"
)

// Options configures Resolve.
type Options struct {
	// TitleToPath builds the URL of a reference with no definition.
	// Nil means DefaultTitleToPath.
	TitleToPath TitleToPath

	// StripBrackets keeps the link text as written instead of re-wrapping
	// it in [[ ]].
	StripBrackets bool

	// StripDefinitionExts lists file extensions (".md") removed from the
	// URL of a defined reference. The first exact match wins.
	StripDefinitionExts []string
}

// Resolve rewrites the shortcut references of t in place. Malformed or
// already satisfied references are left untouched; the only error is one
// returned by opts.TitleToPath, and it aborts the run.
func Resolve(t *mdast.Tree, opts Options) (Report, error) {
	if opts.TitleToPath == nil {
		opts.TitleToPath = DefaultTitleToPath
	}
	r := &resolver{
		tree:        t,
		opts:        opts,
		definitions: collectDefinitions(t),
	}

	// Resolving never adds or removes nodes, so the list collected up front
	// matches a live traversal.
	for _, id := range t.Find(mdast.TypeLinkReference) {
		if err := r.rewrite(id); err != nil {
			return r.report, err
		}
	}
	return r.report, nil
}

type resolver struct {
	tree        *mdast.Tree
	opts        Options
	definitions map[string]mdast.Definition
	report      Report
}

// collectDefinitions maps identifier -> definition. Later duplicates win and
// definitions without an identifier are ignored.
func collectDefinitions(t *mdast.Tree) map[string]mdast.Definition {
	defs := make(map[string]mdast.Definition)
	for _, id := range t.Find(mdast.TypeDefinition) {
		def, ok := t.Data(id).(mdast.Definition)
		if !ok || def.Identifier == "" {
			continue
		}
		defs[def.Identifier] = def
	}
	return defs
}

func (r *resolver) rewrite(id mdast.ID) error {
	t := r.tree
	ref, ok := t.Data(id).(mdast.Reference)
	if !ok || ref.ReferenceType != mdast.ReferenceShortcut {
		r.report.NotShortcut++
		return nil
	}

	def, defined := r.definitions[ref.Identifier]
	var url string
	if defined {
		url = r.effectiveURL(def)
		if url == def.URL {
			r.report.Defined++
			return nil
		}
	}

	prevID, nextID := t.Sibling(id, -1), t.Sibling(id, 1)
	if prevID == mdast.None || nextID == mdast.None {
		r.report.Unbracketed++
		return nil
	}
	prev, okPrev := t.Data(prevID).(mdast.Text)
	next, okNext := t.Data(nextID).(mdast.Text)
	if !okPrev || !okNext || !strings.HasSuffix(prev.Value, "[") || !strings.HasPrefix(next.Value, "]") {
		r.report.Unbracketed++
		return nil
	}

	if !defined {
		var err error
		url, err = r.opts.TitleToPath(ref.Label)
		if err != nil {
			return fmt.Errorf("title to path %q: %w", ref.Label, err)
		}
	}

	prev.Value = strings.TrimSuffix(prev.Value, "[")
	next.Value = strings.TrimPrefix(next.Value, "]")
	t.Set(prevID, prev)
	t.Set(nextID, next)
	// Attrs only hold fields Reference does not model, such as position.
	t.Set(id, mdast.Link{URL: url, Title: ref.Label, Attrs: ref.Attrs})

	if !r.opts.StripBrackets {
		if children := t.Children(id); len(children) > 0 {
			if first, ok := t.Data(children[0]).(mdast.Text); ok {
				first.Value = "[[" + first.Value + "]]"
				t.Set(children[0], first)
			}
		}
	}

	r.report.Rewritten = append(r.report.Rewritten, Rewrite{
		Label:   ref.Label,
		URL:     url,
		Defined: defined,
	})
	return nil
}

// effectiveURL is the definition URL with a configured extension removed.
func (r *resolver) effectiveURL(def mdast.Definition) string {
	ext := extname(def.URL)
	if ext == "" {
		return def.URL
	}
	for _, strip := range r.opts.StripDefinitionExts {
		if ext == strip {
			return def.URL[:len(def.URL)-len(strip)]
		}
	}
	return def.URL
}

// extname returns the extension of the last path element, ignoring a
// leading dot (".env" has none).
func extname(u string) string {
	ext := path.Ext(u)
	if ext == u[strings.LastIndex(u, "/")+1:] {
		return ""
	}
	return ext
}
