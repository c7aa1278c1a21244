package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations found in
// a raw stack trace as produced by runtime/debug.Stack.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		// "/abs/path/internal/x/y.go:42 +0x1d" -> "/abs/path/internal/x/y.go:42"
		location, _, _ := strings.Cut(line, " ")

		_, rel, found := strings.Cut(location, "/internal/")
		if !found {
			continue
		}

		paths = append(paths, "internal/"+rel)
	}

	return paths
}
