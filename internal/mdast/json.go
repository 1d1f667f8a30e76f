package mdast

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads an mdast JSON document. Fields a node type does not model
// (position, data, depth, ...) are kept verbatim in its Attrs. A definition or
// reference whose identifier is not a string decodes with an empty identifier.
func Decode(r io.Reader) (*Tree, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode mdast: %w", err)
	}
	t := New()
	data, children, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	t.Set(t.Root(), data)
	if err := t.decodeChildren(t.Root(), children); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) decodeChildren(parent ID, children []json.RawMessage) error {
	for _, c := range children {
		data, grand, err := decodeNode(c)
		if err != nil {
			return err
		}
		id := t.Append(parent, data)
		if err := t.decodeChildren(id, grand); err != nil {
			return err
		}
	}
	return nil
}

func decodeNode(raw json.RawMessage) (Data, []json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, fmt.Errorf("decode mdast node: %w", err)
	}
	typ := stringField(fields, "type")
	if typ == "" {
		return nil, nil, fmt.Errorf("decode mdast node: missing type")
	}

	var children []json.RawMessage
	if c, ok := fields["children"]; ok {
		if err := json.Unmarshal(c, &children); err != nil {
			return nil, nil, fmt.Errorf("decode %s children: %w", typ, err)
		}
	}

	delete(fields, "type")
	delete(fields, "children")

	var err error
	switch typ {
	case TypeDefinition:
		d := Definition{
			Identifier: takeString(fields, "identifier"),
			URL:        takeString(fields, "url"),
			Title:      takeString(fields, "title"),
		}
		d.Attrs, err = rawAttrs(typ, fields)
		return d, children, err
	case TypeLinkReference:
		ref := Reference{
			Identifier:    takeString(fields, "identifier"),
			Label:         takeString(fields, "label"),
			ReferenceType: takeString(fields, "referenceType"),
		}
		ref.Attrs, err = rawAttrs(typ, fields)
		return ref, children, err
	case TypeLink:
		l := Link{
			URL:   takeString(fields, "url"),
			Title: takeString(fields, "title"),
		}
		l.Attrs, err = rawAttrs(typ, fields)
		return l, children, err
	case TypeText:
		txt := Text{Value: takeString(fields, "value")}
		txt.Attrs, err = rawAttrs(typ, fields)
		return txt, children, err
	}

	// An empty or non-string value stays in Attrs so it is written back as read.
	o := Other{Kind: typ, Value: stringField(fields, "value")}
	if o.Value != "" {
		delete(fields, "value")
	}
	o.Attrs, err = rawAttrs(typ, fields)
	return o, children, err
}

// stringField returns the field as a string, or "" when it is absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// takeString is stringField that also removes the field.
func takeString(fields map[string]json.RawMessage, key string) string {
	s := stringField(fields, key)
	delete(fields, key)
	return s
}

func rawAttrs(typ string, fields map[string]json.RawMessage) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode %s attributes: %w", typ, err)
	}
	return string(b), nil
}

// Encode writes the tree as indented mdast JSON.
func Encode(w io.Writer, t *Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.toJSON(t.Root())); err != nil {
		return fmt.Errorf("encode mdast: %w", err)
	}
	return nil
}

// literal lists the mdast types that always carry a value.
var literal = map[string]bool{
	"code":       true,
	"html":       true,
	"inlineCode": true,
	"yaml":       true,
	"toml":       true,
}

func (t *Tree) toJSON(id ID) map[string]any {
	out := map[string]any{}
	switch d := t.Data(id).(type) {
	case Definition:
		mergeAttrs(out, d.Attrs)
		out["identifier"] = d.Identifier
		out["url"] = d.URL
		if d.Title != "" {
			out["title"] = d.Title
		}
	case Reference:
		mergeAttrs(out, d.Attrs)
		out["identifier"] = d.Identifier
		out["label"] = d.Label
		out["referenceType"] = d.ReferenceType
	case Link:
		mergeAttrs(out, d.Attrs)
		out["url"] = d.URL
		if d.Title != "" {
			out["title"] = d.Title
		}
	case Text:
		mergeAttrs(out, d.Attrs)
		out["value"] = d.Value
	case Other:
		mergeAttrs(out, d.Attrs)
		if _, ok := out["value"]; d.Value != "" || (literal[d.Kind] && !ok) {
			out["value"] = d.Value
		}
	}
	out["type"] = t.Type(id)

	if children := t.Children(id); len(children) > 0 {
		list := make([]map[string]any, 0, len(children))
		for _, c := range children {
			list = append(list, t.toJSON(c))
		}
		out["children"] = list
	} else if _, ok := t.Data(id).(Other); ok && t.Type(id) == TypeRoot {
		out["children"] = []map[string]any{}
	}
	return out
}

// mergeAttrs copies a raw JSON object into out without reinterpreting its
// values, so numbers keep their exact digits.
func mergeAttrs(out map[string]any, attrs string) {
	if attrs == "" {
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(attrs), &fields); err != nil {
		return
	}
	for k, v := range fields {
		out[k] = v
	}
}
