package infrastructure

import "strings"

// ShellEscape quotes s for display in a logged command line.
// exec.Command receives the raw arguments; this is for humans copying the log.
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, isShellSpecialChar) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// ShellEscapeCommand renders binary and args as one pasteable command line
func ShellEscapeCommand(binary string, args ...string) string {
	var b strings.Builder
	b.WriteString(ShellEscape(binary))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(ShellEscape(arg))
	}
	return b.String()
}

// isShellSpecialChar returns true if the character has special meaning in shell
func isShellSpecialChar(c rune) bool {
	switch c {
	case ' ', '\t', '\'', '"', '$', '`', '\\', '!', '*', '?', '[', ']',
		'(', ')', '{', '}', '|', ';', '<', '>', '&', '~', '#', '%', '\n', '\r':
		return true
	default:
		return false
	}
}
