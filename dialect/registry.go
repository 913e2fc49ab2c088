package dialect

import (
	"fmt"
	"strings"
)

var builtin = []*Dialect{botLang, niLang}

// Names lists the builtin dialects.
func Names() []string {
	names := make([]string, len(builtin))
	for i, d := range builtin {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the builtin dialect called name.
func Lookup(name string) (*Dialect, error) {
	for _, d := range builtin {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown dialect: %s (expected one of %s)", name, strings.Join(Names(), ", "))
}

// ForPath picks the builtin dialect by file extension.
func ForPath(path string) (*Dialect, bool) {
	for _, d := range builtin {
		if d.HasExtension(path) {
			return d, true
		}
	}
	return nil, false
}
