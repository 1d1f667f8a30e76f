package wikilink

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pfassina/wikilinks/internal/slug"
)

// TitleToPath maps a human-readable title to a URL path.
type TitleToPath func(title string) (string, error)

// DefaultTitleToPath slugifies the last segment of a slash-separated title
// and keeps the folder segments as written:
//
//	"folder1/folder2/Some Name" -> "folder1/folder2/some-name"
//	"My Page"                   -> "my-page"
//	"/docs/My Page"             -> "/docs/my-page"
//
// No leading "/" is added, so a title without one yields a relative path.
// Register a policy that prefixes "/" when links must be site-absolute.
func DefaultTitleToPath(title string) (string, error) {
	i := strings.LastIndex(title, "/")
	if i < 0 {
		return slug.Make(title), nil
	}
	return title[:i+1] + slug.Make(title[i+1:]), nil
}

// ErrUnknownPolicy is returned by Lookup for a name nobody registered.
var ErrUnknownPolicy = errors.New("unknown title-to-path policy")

// DefaultPolicy is the name DefaultTitleToPath is registered under.
const DefaultPolicy = "default"

var (
	policiesMu sync.RWMutex
	policies   = map[string]TitleToPath{
		DefaultPolicy: DefaultTitleToPath,
		"slug":        slugAll,
		"verbatim":    verbatim,
		"lower":       lower,
	}
)

func slugAll(title string) (string, error) {
	segments := strings.Split(title, "/")
	for i, s := range segments {
		segments[i] = slug.Make(s)
	}
	return strings.Join(segments, "/"), nil
}

func verbatim(title string) (string, error) {
	return strings.ReplaceAll(title, " ", "%20"), nil
}

func lower(title string) (string, error) {
	return strings.ToLower(title), nil
}

// Register makes fn available under name, replacing any earlier registration.
func Register(name string, fn TitleToPath) {
	policiesMu.Lock()
	defer policiesMu.Unlock()
	policies[name] = fn
}

// Lookup returns the policy registered under name. An empty name selects
// DefaultTitleToPath.
func Lookup(name string) (TitleToPath, error) {
	if name == "" {
		name = DefaultPolicy
	}
	policiesMu.RLock()
	defer policiesMu.RUnlock()
	fn, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return fn, nil
}

// Policies returns the registered policy names, sorted.
func Policies() []string {
	policiesMu.RLock()
	defer policiesMu.RUnlock()
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
