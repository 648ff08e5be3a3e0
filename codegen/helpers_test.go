package codegen

import "strings"

func splitLines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func containsLine(text, want string) bool {
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == want {
			return true
		}
	}

	return false
}

// cutAssignment returns the right-hand side of an "x = ...;" line.
func cutAssignment(line string) (string, bool) {
	rhs, ok := strings.CutPrefix(strings.TrimSpace(line), "x = ")
	if !ok {
		return "", false
	}

	return strings.TrimSuffix(rhs, ";"), true
}
