// Package stacktrace extracts the frames belonging to this module from a raw
// goroutine stack so panic logs stay readable.
package stacktrace

import "strings"

const modulePath = "github.com/finlens/loanadvisor"

// InternalPaths returns the lines of stack that reference this module's
// source files. It returns nil when no such lines are found.
func InternalPaths(stack []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stack), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, modulePath) && strings.Contains(trimmed, ".go:") {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
