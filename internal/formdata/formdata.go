// Package formdata parses flat form-encoded keys using the bracket-array
// convention (e.g. "answers[12][]") into a nested value tree. It is a pure
// parser with no knowledge of forms or questions.
package formdata

import (
	"net/url"
	"sort"
	"strings"
)

// Unflatten converts bracketed keys into nested maps. A trailing empty bracket
// marks the key as holding a list value; otherwise a single posted value
// becomes a scalar string and repeated values become a []string. Values for
// nested keys like "answers[12][]" group under their bracketed segments:
//
//	{"answers": {"12": ["3", "4"]}}
func Unflatten(values url.Values) map[string]any {
	result := make(map[string]any)

	// Keys are walked in sorted order so a prefix submitted under conflicting
	// shapes (say "a[]" next to "a[b]") resolves the same way every time.
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		i := strings.Index(key, "[")
		if i < 0 {
			if len(vals) == 1 {
				result[key] = vals[0]
			} else {
				result[key] = append([]string(nil), vals...)
			}
			continue
		}

		subKey := strings.ReplaceAll(key[:i], "]", "")
		rest := strings.TrimRight(key[i+1:], "]")

		if rest == "" {
			// Trailing "[]": the key holds a list. First write wins, as
			// url.Values already aggregates repeated keys.
			if _, ok := result[subKey]; !ok {
				result[subKey] = append([]string(nil), vals...)
			}
			continue
		}

		sub, ok := result[subKey].(map[string]any)
		if !ok {
			if _, taken := result[subKey]; taken {
				// The prefix already resolved to a list or scalar; a nested
				// key under the same prefix loses rather than clobbering it.
				continue
			}
			sub = make(map[string]any)
			result[subKey] = sub
		}
		for k, v := range Unflatten(url.Values{rest: vals}) {
			sub[k] = v
		}
	}

	return result
}
