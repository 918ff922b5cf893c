package classify

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/abhisek/mathsolver/internal/problem"
)

//go:embed keywords.toml
var keywordsTOML []byte

// KeywordTable maps a family to its locale-tagged keyword lists.
type KeywordTable map[problem.Family]map[string][]string

// keywords is parsed once at package initialisation.
var keywords = mustParseKeywords(keywordsTOML)

// ParseKeywords decodes a TOML keyword table. Keywords are lower-cased.
func ParseKeywords(data []byte) (KeywordTable, error) {
	var raw map[string]map[string][]string
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode keyword table: %w", err)
	}

	table := make(KeywordTable, len(raw))
	for name, locales := range raw {
		family, err := problem.ParseFamily(name)
		if err != nil {
			return nil, fmt.Errorf("keyword table: %w", err)
		}
		lowered := make(map[string][]string, len(locales))
		for locale, words := range locales {
			for _, w := range words {
				if strings.TrimSpace(w) == "" {
					return nil, fmt.Errorf("keyword table: empty keyword in %s.%s", name, locale)
				}
				lowered[locale] = append(lowered[locale], strings.ToLower(w))
			}
		}
		table[family] = lowered
	}
	return table, nil
}

func mustParseKeywords(data []byte) KeywordTable {
	t, err := ParseKeywords(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Words returns every keyword for family across all locales, in a stable
// order.
func (t KeywordTable) Words(family problem.Family) []string {
	locales := t[family]
	names := make([]string, 0, len(locales))
	for l := range locales {
		names = append(names, l)
	}
	sort.Strings(names)

	var out []string
	for _, l := range names {
		out = append(out, locales[l]...)
	}
	return out
}

// Locales returns the locale tags present for family, sorted.
func (t KeywordTable) Locales(family problem.Family) []string {
	var out []string
	for l := range t[family] {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// DefaultKeywords returns the embedded keyword table.
func DefaultKeywords() KeywordTable {
	return keywords
}
