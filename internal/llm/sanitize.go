package llm

import "strings"

// StripFencing removes the Markdown wrapping models habitually add around
// JSON output: triple-backtick fences (prefix and suffix) and a leading
// "json" language tag. It is pure and idempotent: stripping an
// already-clean payload returns it unchanged.
func StripFencing(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)

	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		rest := strings.TrimSpace(s[4:])
		// only treat "json" as a language tag, never as payload
		if rest == "" || rest[0] == '{' || rest[0] == '[' {
			s = rest
		}
	}
	return s
}
