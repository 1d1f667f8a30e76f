package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pfassina/wikilinks/internal/mdast"
)

// Frontmatter represents YAML frontmatter.
type Frontmatter struct {
	Raw    string         // YAML between the --- fences
	Fields map[string]any // decoded YAML
}

// SplitFrontmatter separates --- delimited YAML frontmatter from the body.
// Content without a closed frontmatter block is returned whole as the body.
func SplitFrontmatter(content []byte) (*Frontmatter, []byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))

	// First line must be ---
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, content, nil
	}

	var raw []string
	lineNum := 1
	closed := false
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		raw = append(raw, line)
	}
	if !closed {
		return nil, content, nil
	}

	fm := &Frontmatter{Raw: strings.Join(raw, "\n")}
	if err := yaml.Unmarshal([]byte(fm.Raw), &fm.Fields); err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, bodyAfter(content, lineNum), nil
}

// node returns the mdast yaml node. Decoded fields go under data.parsedValue
// when they can be represented as JSON.
func (fm *Frontmatter) node() mdast.Other {
	o := mdast.Other{Kind: "yaml", Value: fm.Raw}
	if len(fm.Fields) > 0 {
		o.Attrs = attrs(map[string]any{"data": map[string]any{"parsedValue": fm.Fields}})
	}
	return o
}

// bodyAfter returns content following the first n lines.
func bodyAfter(content []byte, n int) []byte {
	rest := content
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return nil
		}
		rest = rest[idx+1:]
	}
	return rest
}
