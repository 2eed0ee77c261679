package gdalcmd

import "strings"

// EscapeAndJoin joins arguments with spaces, double-quoting any argument
// that contains a space and does not start with '-'. Backslashes and quotes
// inside a quoted argument are escaped.
func EscapeAndJoin(args []string) string {
	out := make([]string, 0, len(args))
	for _, s := range args {
		if s != "" && s[0] != '-' && strings.Contains(s, " ") {
			s = strings.ReplaceAll(s, `\`, `\\`)
			s = strings.ReplaceAll(s, `"`, `\"`)
			s = `"` + s + `"`
		}
		out = append(out, s)
	}
	return strings.Join(out, " ")
}
