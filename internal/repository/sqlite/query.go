package sqlite

import (
	"strings"

	"assetcatalog/internal/domain"
)

// sortColumns maps sortable fields to their columns
var sortColumns = map[domain.SortField]string{
	domain.SortName:      "name",
	domain.SortPrice:     "price",
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
}

// buildWhere returns the WHERE clause (empty when the query has no filter)
// and its arguments. The name filter is a literal substring match that
// ignores case for all of Unicode, not only ASCII.
func buildWhere(q domain.Query) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if q.Name != "" {
		conds = append(conds, "instr("+foldFunc+"(name), "+foldFunc+"(?)) > 0")
		args = append(args, q.Name)
	}
	if q.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *q.MaxPrice)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildOrder returns the ORDER BY clause. Without a sort field rows come
// back in insertion order; with one, insertion order breaks ties.
func buildOrder(q domain.Query) string {
	col, ok := sortColumns[q.SortField]
	if !ok {
		return " ORDER BY rowid"
	}
	dir := "ASC"
	if q.Order() == domain.SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", rowid ASC"
}
