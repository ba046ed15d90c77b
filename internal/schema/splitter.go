package schema

import "strings"

// SplitStatements breaks a SQL script into statements on top-level
// semicolons. Semicolons inside 'string literals' (with '' escapes),
// "quoted identifiers" (with "" escapes) and $tag$ dollar-quoted bodies are
// kept. -- line comments and /* block */ comments are removed. Empty
// statements are dropped.
func SplitStatements(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			out = append(out, stmt)
		}
		cur.Reset()
	}

	n := len(script)
	for i := 0; i < n; i++ {
		c := script[i]
		switch {
		case c == '\'' || c == '"':
			end := scanQuoted(script, i, c)
			cur.WriteString(script[i:end])
			i = end - 1

		case c == '-' && i+1 < n && script[i+1] == '-':
			nl := strings.IndexByte(script[i:], '\n')
			if nl < 0 {
				i = n
				continue
			}
			// resume on the newline so it is kept as whitespace
			i += nl - 1

		case c == '/' && i+1 < n && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = n
				continue
			}
			cur.WriteByte(' ')
			i += 2 + end + 1

		case c == '$':
			tag, ok := dollarTag(script, i)
			if !ok {
				cur.WriteByte(c)
				continue
			}
			body := strings.Index(script[i+len(tag):], tag)
			end := n
			if body >= 0 {
				end = i + len(tag) + body + len(tag)
			}
			cur.WriteString(script[i:end])
			i = end - 1

		case c == ';':
			flush()

		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// scanQuoted returns the index just past the quote that closes the literal
// opened at start. A doubled quote is an escaped quote.
func scanQuoted(s string, start int, quote byte) int {
	for j := start + 1; j < len(s); j++ {
		if s[j] != quote {
			continue
		}
		if j+1 < len(s) && s[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// dollarTag reports the $tag$ opening at i, if any. $1 style parameters and
// identifiers containing $ are not tags.
func dollarTag(s string, i int) (string, bool) {
	if i > 0 && isIdentByte(s[i-1]) {
		return "", false
	}
	j := i + 1
	for j < len(s) && s[j] != '$' {
		c := s[j]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (j > i+1 && c >= '0' && c <= '9')) {
			return "", false
		}
		j++
	}
	if j >= len(s) {
		return "", false
	}
	return s[i : j+1], true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
