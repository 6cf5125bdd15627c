package text2sql

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// Statements a generated query may start with. The collaborator contract only
// ever asks for reads; anything else is rejected before it reaches Fetch.
var allowedPrefixes = []string{"SELECT", "WITH"}

// ScreenQuery rejects generated SQL that is not a read statement or that
// trips libinjection's SQLi fingerprinting on any of its string literals.
// Parameter values bound by callers are not screened here; they never reach
// SQL text.
func ScreenQuery(sqlQuery string) error {
	trimmed := strings.TrimSpace(sqlQuery)
	upper := strings.ToUpper(trimmed)

	allowed := false
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(upper, prefix) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("generated statement is not a read query: %q", firstWord(trimmed))
	}

	for _, literal := range stringLiterals(trimmed) {
		if isSQLi, fingerprint := libinjection.IsSQLi(literal); isSQLi {
			return fmt.Errorf("generated query literal %q matches injection fingerprint %s", literal, fingerprint)
		}
	}
	return nil
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t\n"); i > 0 {
		return s[:i]
	}
	return s
}

// stringLiterals extracts the contents of single-quoted literals, honoring
// doubled-quote escapes.
func stringLiterals(s string) []string {
	var literals []string
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		var b strings.Builder
		j := i + 1
		for j < len(s) {
			if s[j] == '\'' {
				if j+1 < len(s) && s[j+1] == '\'' {
					b.WriteByte('\'')
					j += 2
					continue
				}
				break
			}
			b.WriteByte(s[j])
			j++
		}
		literals = append(literals, b.String())
		i = j
	}
	return literals
}
