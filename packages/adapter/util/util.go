package util

import "strings"

// SplitAtColon splits a declaration string at the first colon and trims both
// parts. When no colon is present the default values are returned instead.
func SplitAtColon(input string, defaultValues []string) []string {
	index := strings.IndexRune(input, ':')
	if index == -1 {
		return defaultValues
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}

// DashCaseToCamelCase converts a dash-case name to camelCase, e.g.
// "my-list-item" becomes "myListItem".
func DashCaseToCamelCase(input string) string {
	var b strings.Builder
	upper := false
	for _, r := range input {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
