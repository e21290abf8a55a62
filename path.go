package streamzip

import "strings"

// validatePath rejects ill-formed archive paths per the rules below,
// returning a *PathError naming the offending rule. An accepted path
// is written to the wire unchanged: no normalization, no case-folding.
func validatePath(p string) error {
	switch {
	case len(p) == 0:
		return &PathError{Path: p, Reason: "empty path"}
	case len(p) >= uint16max:
		return &PathError{Path: p, Reason: "path too long"}
	case p[0] == '/':
		return &PathError{Path: p, Reason: "leading slash"}
	case strings.Contains(p, "//"):
		return &PathError{Path: p, Reason: "doubled slash"}
	case strings.ContainsRune(p, '\\'):
		return &PathError{Path: p, Reason: "backslash not allowed"}
	case hasDotDotComponent(p):
		return &PathError{Path: p, Reason: "contains .. component"}
	case strings.HasSuffix(p, "/"):
		return &PathError{Path: p, Reason: "trailing slash"}
	default:
		return nil
	}
}

// hasDotDotComponent reports whether p matches any of ^\.\. , /\.\./
// or /\.\.$, the three patterns spec §4.5 names for rejecting a ".."
// component.
func hasDotDotComponent(p string) bool {
	return strings.HasPrefix(p, "..") ||
		strings.Contains(p, "/../") ||
		strings.HasSuffix(p, "/..")
}
