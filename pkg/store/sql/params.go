package sql

import (
	"fmt"
	"regexp"
)

var namedParamRe = regexp.MustCompile(`(^|[^:\w]):([a-zA-Z_][a-zA-Z0-9_]*)`)

// Expand rewrites :name placeholders into positional $n arguments, numbering
// them in order of first appearance. A double colon (Postgres cast) is left
// alone. Params that never appear in the query are ignored; a placeholder
// with no matching param is an error.
func Expand(query string, params Params) (string, []any, error) {
	var (
		args    []any
		ordinal = map[string]int{}
		missing string
	)

	expanded := namedParamRe.ReplaceAllStringFunc(query, func(match string) string {
		groups := namedParamRe.FindStringSubmatch(match)
		prefix, name := groups[1], groups[2]

		n, seen := ordinal[name]
		if !seen {
			value, ok := params[name]
			if !ok {
				if missing == "" {
					missing = name
				}
				return match
			}
			args = append(args, value)
			n = len(args)
			ordinal[name] = n
		}
		return fmt.Sprintf("%s$%d", prefix, n)
	})

	if missing != "" {
		return "", nil, fmt.Errorf("missing value for parameter :%s", missing)
	}
	return expanded, args, nil
}
