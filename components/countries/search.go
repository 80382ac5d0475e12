package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-regforms/pkg/registration"
)

// Search matches query case-insensitively against country codes and labels.
// An exact code match ranks first, then label prefixes, then the remaining
// substring matches; ties keep display order.
func Search(countries []registration.Option, query string, limit int, opts Options) []registration.Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(countries) > limit {
			countries = countries[:limit]
		}
		return append([]registration.Option{}, countries...)
	}

	q := strings.ToLower(query)
	matches := make([]match, 0, len(countries))
	for _, country := range countries {
		code := strings.ToLower(country.Value)
		label := strings.ToLower(country.Label)
		switch {
		case code == q:
			matches = append(matches, match{option: country, rank: 0})
		case strings.HasPrefix(label, q):
			matches = append(matches, match{option: country, rank: 1})
		case strings.Contains(label, q):
			matches = append(matches, match{option: country, rank: 2})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]registration.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.option)
	}
	return out
}

type match struct {
	option registration.Option
	rank   int
}
