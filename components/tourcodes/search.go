package tourcodes

import (
	"sort"
	"strings"
)

// Search matches query case-insensitively against codes and names. Code
// prefix matches rank first, then other matches, each group sorted by code.
func Search(codes []Code, query string, limit int, opts Options) []Code {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(codes) <= limit {
				return append([]Code{}, codes...)
			}
			return append([]Code{}, codes[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCode, 0, 16)
	for _, code := range codes {
		lowerCode := strings.ToLower(code.Code)
		if !strings.Contains(lowerCode, q) && !strings.Contains(strings.ToLower(code.Name), q) {
			continue
		}
		matches = append(matches, matchedCode{
			code:     code,
			isPrefix: strings.HasPrefix(lowerCode, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].code.Code < matches[j].code.Code
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Code, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.code)
	}
	return out
}

// SearchOptions runs Search and maps the results to select options.
func SearchOptions(codes []Code, query string, limit int, opts Options) []Option {
	results := Search(codes, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, code := range results {
		out = append(out, Option{Value: code.Code, Label: code.Label()})
	}
	return out
}

type matchedCode struct {
	code     Code
	isPrefix bool
}
