package persistence

import (
	"strings"

	"golang.org/x/text/cases"
)

// likeEscaper neutralizes LIKE metacharacters in user-supplied search terms
// so they match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern builds the ILIKE needle for a free-text search term. The
// term is trimmed, Unicode case-folded so that characters without a simple
// lower form (ß, dotless i) still match, and LIKE wildcards are escaped.
func searchPattern(term string) string {
	folded := cases.Fold().String(strings.TrimSpace(term))
	return "%" + likeEscaper.Replace(folded) + "%"
}
