package markdown

import (
	"strings"

	"github.com/pfassina/wikilinks/internal/mdast"
)

// inline tokenizes s into children of parent.
//
// Bracket handling follows remark's reference tokenization: a label is the
// text between "[" and the next "]" with no "[" in between. "[label](url)"
// is a link, "[label][id]" a full reference, "[label][]" a collapsed one and
// a bare "[label]" a shortcut reference, defined or not. Any other bracket
// stays text, so "[[Page]]" yields "[", a shortcut reference and "]".
func (b *builder) inline(parent mdast.ID, s string) {
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			b.tree.Append(parent, mdast.Text{Value: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
			buf.WriteByte(s[i+1])
			i += 2
			continue

		case c == '`':
			if code, end, ok := scanCodeSpan(s, i); ok {
				flush()
				b.tree.Append(parent, mdast.Other{Kind: "inlineCode", Value: code})
				i = end
				continue
			}
			n := runLength(s, i, '`')
			buf.WriteString(s[i : i+n])
			i += n
			continue

		case c == '!' && i+1 < len(s) && s[i+1] == '[':
			if label, end, ok := scanLabel(s, i+1); ok {
				if url, title, after, ok := scanDestination(s, end); ok {
					flush()
					a := map[string]any{"url": url, "alt": label}
					if title != "" {
						a["title"] = title
					}
					b.tree.Append(parent, mdast.Other{Kind: "image", Attrs: attrs(a)})
					i = after
					continue
				}
			}

		case c == '[':
			if label, end, ok := scanLabel(s, i); ok {
				flush()
				i = b.bracket(parent, s, label, end)
				continue
			}
		}

		buf.WriteByte(s[i])
		i++
	}
	flush()
}

// bracket appends the node for a label ending at end and returns the
// position after it.
func (b *builder) bracket(parent mdast.ID, s, label string, end int) int {
	if url, title, after, ok := scanDestination(s, end); ok {
		id := b.tree.Append(parent, mdast.Link{URL: url, Title: title})
		b.inline(id, label)
		return after
	}

	ref := mdast.Reference{
		Identifier:    normalizeIdentifier(label),
		Label:         label,
		ReferenceType: mdast.ReferenceShortcut,
	}
	after := end
	if end < len(s) && s[end] == '[' {
		if id, idEnd, ok := scanLabel(s, end); ok {
			ref.Identifier = normalizeIdentifier(id)
			ref.Label = id
			ref.ReferenceType = mdast.ReferenceFull
			after = idEnd
		} else if strings.HasPrefix(s[end:], "[]") {
			ref.ReferenceType = mdast.ReferenceCollapsed
			after = end + 2
		}
	}

	id := b.tree.Append(parent, ref)
	b.inline(id, label)
	return after
}

// scanLabel reads "[label]" starting at s[i] == '['. It returns the label
// and the position after the closing bracket. Empty labels and labels
// containing an unescaped "[" are rejected.
func scanLabel(s string, i int) (string, int, bool) {
	if i >= len(s) || s[i] != '[' {
		return "", 0, false
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			return "", 0, false
		case ']':
			if j == i+1 {
				return "", 0, false
			}
			return s[i+1 : j], j + 1, true
		}
	}
	return "", 0, false
}

// scanDestination reads "(url "title")" starting at s[i] == '('. A bare url
// may contain balanced parentheses, as in "(/wiki/Foo_(bar))".
func scanDestination(s string, i int) (url, title string, after int, ok bool) {
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}
	j := skipSpace(s, i+1)
	if j >= len(s) {
		return "", "", 0, false
	}

	if s[j] == '<' {
		k := j + 1
		for ; k < len(s) && s[k] != '>'; k++ {
			switch s[k] {
			case '\\':
				k++
			case '<', '\n':
				return "", "", 0, false
			}
		}
		if k >= len(s) {
			return "", "", 0, false
		}
		url = unescape(s[j+1 : k])
		j = k + 1
	} else {
		start, depth := j, 0
	scan:
		for ; j < len(s); j++ {
			switch c := s[j]; {
			case c == '\\' && j+1 < len(s) && isASCIIPunct(s[j+1]):
				j++
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break scan
				}
				depth--
			case c <= ' ':
				break scan
			}
		}
		if depth != 0 {
			return "", "", 0, false
		}
		url = unescape(s[start:j])
	}

	k := skipSpace(s, j)
	if k < len(s) && k > j && (s[k] == '"' || s[k] == '\'' || s[k] == '(') {
		closer := s[k]
		if closer == '(' {
			closer = ')'
		}
		m := k + 1
		for ; m < len(s) && s[m] != closer; m++ {
			if s[m] == '\\' {
				m++
			}
		}
		if m >= len(s) {
			return "", "", 0, false
		}
		title = unescape(s[k+1 : m])
		k = skipSpace(s, m+1)
	}
	if k >= len(s) || s[k] != ')' {
		return "", "", 0, false
	}
	return url, title, k + 1, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// unescape drops the backslash of escaped ASCII punctuation.
func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}

// scanCodeSpan reads a backtick code span starting at s[i].
func scanCodeSpan(s string, i int) (string, int, bool) {
	n := runLength(s, i, '`')
	for j := i + n; j < len(s); {
		k := strings.IndexByte(s[j:], '`')
		if k < 0 {
			return "", 0, false
		}
		j += k
		m := runLength(s, j, '`')
		if m == n {
			code := s[i+n : j]
			if len(code) >= 2 && code[0] == ' ' && code[len(code)-1] == ' ' && strings.TrimSpace(code) != "" {
				code = code[1 : len(code)-1]
			}
			return code, j + m, true
		}
		j += m
	}
	return "", 0, false
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
