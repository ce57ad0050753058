package postgres

import (
	"fmt"
	"strings"

	"job-tracker/internal/models"
)

// buildApplicationListQuery appends filters, ordering and an optional limit to baseQuery.
func buildApplicationListQuery(baseQuery string, conditions []string, args *[]any, limit int) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(baseQuery)

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY a.status_changed_date DESC, a.created_at DESC")

	if limit > 0 {
		*args = append(*args, limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(*args)))
	}

	return queryBuilder.String()
}

// likePattern wraps s for a substring ILIKE match, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// An unset job type is stored as NULL.
func nullableJobType(jt models.JobType) any {
	if jt == "" {
		return nil
	}
	return string(jt)
}
