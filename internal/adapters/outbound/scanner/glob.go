package scanner

import (
	"path"
	"strings"
)

// Match reports whether the slash-separated path name matches pattern.
// Besides path.Match syntax a "**" segment matches zero or more directories,
// and a pattern ending in "/**" also matches everything below it.
func Match(pattern, name string) bool {
	if pattern == "" {
		return false
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, err := path.Match(pat[0], name[0]); err != nil || !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}

// ExpandBraces turns "{a,b}/*.rb" into ["a/*.rb", "b/*.rb"]. Nested groups
// are expanded left to right. An empty pattern expands to nothing.
func ExpandBraces(pattern string) []string {
	if pattern == "" {
		return nil
	}
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}

	depth := 0
	closeAt := -1
	var alts []string
	last := open + 1
	for i := open; i < len(pattern) && closeAt < 0; i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				alts = append(alts, pattern[last:i])
				closeAt = i
			}
		case ',':
			if depth == 1 {
				alts = append(alts, pattern[last:i])
				last = i + 1
			}
		}
	}
	if closeAt < 0 {
		return []string{pattern}
	}

	prefix, suffix := pattern[:open], pattern[closeAt+1:]
	var out []string
	for _, alt := range alts {
		out = append(out, ExpandBraces(prefix+alt+suffix)...)
	}
	return out
}
