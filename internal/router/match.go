package router

import "strings"

// ParamPrefix marks a parameter segment in a pattern.
const ParamPrefix = ":"

// Params maps parameter names to the path segments they captured.
type Params map[string]string

// segments splits p at '/' and drops empty segments.
func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MatchPath matches path against pattern.
//
// It returns false and nil params when the segment counts differ or a
// literal segment is not equal to the corresponding path segment. Parameter
// segments always match and capture the raw path segment; values are not
// decoded. On success the returned Params is non-nil, possibly empty.
func MatchPath(pattern, path string) (bool, Params) {
	pp := segments(pattern)
	sp := segments(path)
	if len(pp) != len(sp) {
		return false, nil
	}

	params := Params{}
	for i, seg := range pp {
		if name, ok := strings.CutPrefix(seg, ParamPrefix); ok {
			params[name] = sp[i]
			continue
		}
		if seg != sp[i] {
			return false, nil
		}
	}
	return true, params
}
