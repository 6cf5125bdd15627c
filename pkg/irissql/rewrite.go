package irissql

import (
	"regexp"
	"strconv"
	"strings"
)

// IRIS SQL has no LIMIT/OFFSET; row limiting uses a leading TOP n in the
// SELECT list. Generated SQL (from LLMs or other dialects) is rewritten here
// before execution.
var (
	limitPattern  = regexp.MustCompile(`(?i)\s+LIMIT\s+(\d+)`)
	offsetPattern = regexp.MustCompile(`(?i)\s+OFFSET\s+\d+`)
	selectPattern = regexp.MustCompile(`(?i)^(\s*SELECT)(\s+DISTINCT)?\s`)
	topPattern    = regexp.MustCompile(`(?i)^\s*SELECT\s+(DISTINCT\s+)?TOP\s`)
)

// RewriteForIRIS translates a generated SELECT into the IRIS dialect:
// trailing semicolons are stripped, LIMIT n becomes a leading TOP n, and
// OFFSET clauses are removed entirely. Statements without a LIMIT pass
// through unchanged apart from semicolon stripping.
func RewriteForIRIS(sql string) string {
	out := strings.TrimSpace(sql)
	out = strings.TrimSuffix(out, ";")
	out = strings.TrimSpace(out)

	out = offsetPattern.ReplaceAllString(out, "")

	m := limitPattern.FindStringSubmatch(out)
	if m == nil {
		return out
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return out
	}
	out = limitPattern.ReplaceAllString(out, "")

	// Don't stack TOP clauses when the query already carries one.
	if topPattern.MatchString(out) {
		return out
	}

	return selectPattern.ReplaceAllString(out, "${1}${2} TOP "+strconv.Itoa(n)+" ")
}
