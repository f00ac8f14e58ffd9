package slugmatch

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed table.yaml
var defaultTable []byte

type Entry struct {
	Slug    string   `yaml:"slug"`
	Aliases []string `yaml:"aliases"`
}

type tableFile struct {
	Slugs []Entry `yaml:"slugs"`
}

type pattern struct {
	prefix string
	slug   string
}

// Matcher resolves short-link paths to catalog slugs. When several patterns
// match, the longest pattern wins; equal lengths keep table order.
type Matcher struct {
	patterns []pattern
	slugs    []string
}

func Default() *Matcher {
	m, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("slugmatch: embedded table: %v", err))
	}
	return m
}

func LoadFile(path string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slug table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Matcher, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read slug table: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Matcher, error) {
	var tf tableFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("parse slug table: %w", err)
	}
	return New(tf.Slugs)
}

func New(entries []Entry) (*Matcher, error) {
	m := &Matcher{}
	seen := map[string]string{}
	for i, e := range entries {
		slug := normalize(e.Slug)
		if slug == "" {
			return nil, fmt.Errorf("entry %d: empty slug", i)
		}
		m.slugs = append(m.slugs, slug)
		for _, p := range append([]string{slug}, e.Aliases...) {
			p = normalize(p)
			if p == "" {
				continue
			}
			if owner, dup := seen[p]; dup {
				return nil, fmt.Errorf("pattern %q listed for both %q and %q", p, owner, slug)
			}
			seen[p] = slug
			m.patterns = append(m.patterns, pattern{prefix: p, slug: slug})
		}
	}
	return m, nil
}

// Match returns ("", false) for paths that belong to no catalog entry.
func (m *Matcher) Match(path string) (string, bool) {
	p := normalize(path)
	if p == "" || m == nil {
		return "", false
	}
	best := -1
	for i, pat := range m.patterns {
		if !matches(p, pat.prefix) {
			continue
		}
		if best < 0 || len(pat.prefix) > len(m.patterns[best].prefix) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return m.patterns[best].slug, true
}

func (m *Matcher) Slugs() []string {
	out := make([]string, len(m.slugs))
	copy(out, m.slugs)
	return out
}

func matches(path, prefix string) bool {
	return path == prefix ||
		strings.HasPrefix(path, prefix+"/") ||
		strings.HasPrefix(path, prefix+"-")
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "/")
	return strings.ToLower(s)
}
