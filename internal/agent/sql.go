package agent

import (
	"errors"
	"regexp"
	"strings"
)

var (
	fencePattern = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?\\s*(.*?)```")

	errEmptySQL      = errors.New("model returned no SQL")
	errMultipleStmts = errors.New("only a single SQL statement is allowed")
	errNotReadOnly   = errors.New("only SELECT, WITH and EXPLAIN statements are allowed")
)

// readOnlyKeywords are the statements the guard lets through.
var readOnlyKeywords = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"EXPLAIN": true,
}

// ExtractSQL pulls the query out of a model reply. A fenced block wins over
// the surrounding prose; trailing semicolons are dropped.
func ExtractSQL(reply string) (string, error) {
	query := reply
	if m := fencePattern.FindStringSubmatch(reply); m != nil {
		query = m[1]
	}
	query = strings.TrimSpace(query)
	for strings.HasSuffix(query, ";") {
		query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	}
	if query == "" {
		return "", errEmptySQL
	}
	return query, nil
}

// CheckReadOnly accepts a single statement that starts with SELECT, WITH or
// EXPLAIN. Semicolons inside string literals, quoted identifiers and
// comments are ignored.
func CheckReadOnly(query string) error {
	code := stripLiterals(query)
	if strings.Contains(strings.TrimRight(strings.TrimSpace(code), ";"), ";") {
		return errMultipleStmts
	}
	fields := strings.Fields(strings.TrimLeft(code, "( \t\r\n"))
	if len(fields) == 0 {
		return errEmptySQL
	}
	keyword := strings.ToUpper(strings.TrimLeft(fields[0], "("))
	if !readOnlyKeywords[keyword] {
		return errNotReadOnly
	}
	return nil
}

// stripLiterals blanks out string literals, quoted identifiers and comments
// so only SQL code remains.
func stripLiterals(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < len(query) {
				if query[j] == c {
					// A doubled quote is an escaped quote.
					if j+1 < len(query) && query[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			b.WriteString(" ")
			i = j
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			for i < len(query) && query[i] != '\n' {
				i++
			}
			b.WriteString(" ")
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				i = len(query)
			} else {
				i += end + 3
			}
			b.WriteString(" ")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
