// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Handle turns a typed identifier into a login handle: trimmed,
// lowercased, with any leading @ and any email domain part removed.
func Handle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "@")
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Role canonicalizes a raw role string into models.RoleLeader or
// models.RoleMusician. Older documents carry case and locale variants
// ("Leader", "Líder", "Músico"); anything unrecognized is a musician.
func Role(s string) string {
	folded := text.Fold(s)
	if strings.HasPrefix(folded, "lider") || strings.HasPrefix(folded, "leader") {
		return models.RoleLeader
	}
	return models.RoleMusician
}
