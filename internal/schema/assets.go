package schema

import (
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

const listingCacheSize = 128

// AssetStore is a browsable tree of files published under a base URL, such as
// the static or the media directory.
type AssetStore struct {
	Name    string
	URL     string
	Aliases []string
	FS      fs.FS
}

// bases are the strings that identify the store inside an example value.
func (s *AssetStore) bases() []string {
	out := make([]string, 0, 1+len(s.Aliases))
	if s.URL != "" {
		out = append(out, s.URL)
	}

	return append(out, s.Aliases...)
}

// List enumerates the files of the store, optionally keeping only paths the
// filter matches. Choices are grouped by their top level directory.
func (s *AssetStore) List(filter *regexp.Regexp) (Choices, error) {
	if s.FS == nil {
		return Choices{}, nil
	}

	paths, err := doublestar.Glob(s.FS, "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	choices := make(Choices, 0, len(paths))
	for _, p := range paths {
		if filter != nil && !filter.MatchString(p) {
			continue
		}

		group, label := "", p
		if i := strings.IndexByte(p, '/'); i > 0 {
			group, label = p[:i], p[i+1:]
		}

		choices = append(choices, Choice{Value: p, Label: label, Group: group})
	}

	return choices, nil
}

// AssetChoices is a lazily enumerated asset listing.
type AssetChoices struct {
	Store  *AssetStore
	Filter *regexp.Regexp
	cache  *lru.Cache[string, Choices]
}

func (a *AssetChoices) key() string {
	if a.Filter == nil {
		return a.Store.Name
	}

	return a.Store.Name + "\x00" + a.Filter.String()
}

// Choices enumerates the matching files, reusing a previous listing when cached.
func (a *AssetChoices) Choices() (Choices, error) {
	if a.cache != nil {
		if choices, ok := a.cache.Get(a.key()); ok {
			return choices, nil
		}
	}

	choices, err := a.Store.List(a.Filter)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Add(a.key(), choices)
	}

	return choices, nil
}

// matchAsset finds the store an example string refers to. The remainder after
// the base is returned as a filter expression.
func matchAsset(stores []*AssetStore, s string) (*AssetStore, string, bool) {
	for _, store := range stores {
		for _, base := range store.bases() {
			switch {
			case s == base:
				return store, "", true
			case strings.HasPrefix(s, base):
				return store, s[len(base):], true
			case strings.HasPrefix(s, "^"+base):
				return store, s[len(base)+1:], true
			}
		}
	}

	return nil, "", false
}
