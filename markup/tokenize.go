// Package markup reads the statement language embedded in annotated
// source documents. Statements such as
//
//	L-Pa1:M,"John Smith";
//	L-D1:"3 Apr 1861";
//	L-Ea1:D-ET1,L-Pa1;
//
// become persona, date, place and event assertion records, each known
// inside the document by its local symbol (Pa1, D1, Ea1). Anchors in the
// document text that carry a local symbol are rewritten to point at the
// persisted record.
package markup

import "strings"

// Tokenize splits annotation text into statements. A ';' outside double
// quotes ends a statement; a "//" outside quotes starts a comment running
// to the end of the line, which is kept as a single space. Newlines and
// tabs fold to spaces and each statement is left-trimmed. Text after the
// last ';' is not a statement. An unterminated quote is not an error.
func Tokenize(text string) []string {
	var (
		out       []string
		stmt      strings.Builder
		inQuote   bool
		inComment bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inComment {
			if c == '\n' {
				inComment = false
				stmt.WriteByte(' ')
			}
			continue
		}
		switch {
		case c == '/' && !inQuote && i+1 < len(text) && text[i+1] == '/':
			inComment = true
			continue
		case c == '"':
			inQuote = !inQuote
		}
		switch {
		case c == ';' && !inQuote:
			out = append(out, strings.TrimLeft(stmt.String(), " "))
			stmt.Reset()
		case c == '\n' || c == '\t' || c == '\r':
			stmt.WriteByte(' ')
		default:
			stmt.WriteByte(c)
		}
	}
	return out
}
