package utils

import "strings"

// TrimmedNonEmpty trims every fragment and drops the ones left empty,
// preserving order.
func TrimmedNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FirstTrimmed returns the first fragment with surrounding whitespace removed,
// or "" when there are none.
func FirstTrimmed(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

// StripEmphasis removes markdown asterisk emphasis. Bullet markers ("* item")
// become plain lines.
func StripEmphasis(s string) string {
	if !strings.Contains(s, "*") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "* ") {
			indent := line[:len(line)-len(trimmed)]
			line = indent + "- " + strings.TrimPrefix(trimmed, "* ")
		}
		lines[i] = strings.ReplaceAll(line, "*", "")
	}
	return strings.Join(lines, "\n")
}
