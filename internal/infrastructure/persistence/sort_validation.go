package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ridgeline/backend/internal/domain/shared"
)

// applyFilter applies pagination and ordering shared by tenant list queries.
// OrderBy is validated against the caller's column allowlist; an unknown
// column falls back to defaultOrder instead of reaching the SQL string.
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	column := strings.ToLower(strings.TrimSpace(filter.OrderBy))
	if column != "" && allowed[column] {
		orderDir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			orderDir = "DESC"
		}
		return query.Order(`"` + column + `" ` + orderDir)
	}
	return query.Order(defaultOrder)
}
