package wikilink

// Rewrite records one reference turned into a link.
type Rewrite struct {
	Label   string
	URL     string
	Defined bool // URL came from a definition rather than TitleToPath
}

// Report summarizes a Resolve run.
type Report struct {
	Rewritten []Rewrite

	NotShortcut int // full or collapsed references
	Defined     int // shortcut references already satisfied by a definition
	Unbracketed int // shortcut references not wrapped in [[ ]]
}

// Skipped returns the number of references left as they were.
func (r Report) Skipped() int {
	return r.NotShortcut + r.Defined + r.Unbracketed
}
