package matcher

import "github.com/bmatcuk/doublestar/v4"

// classFilter limits ranking sources by internal class name. Names use '/'
// separators, so doublestar's path semantics apply directly: "com/**" covers
// every package below com.
type classFilter struct {
	include []string
	exclude []string
}

func newClassFilter(include, exclude []string) classFilter {
	return classFilter{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
	}
}

// Allows reports whether name passes the filter. Exclusions win.
func (f classFilter) Allows(name string) bool {
	for _, pattern := range f.exclude {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, pattern := range f.include {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
