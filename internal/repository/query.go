package repository

import (
	"strconv"
	"strings"

	"github.com/stemsi/classroom-backend/internal/adminsite"
)

// ListParams carries the console's listing options down to SQL.
type ListParams struct {
	Search       string
	SearchFields []string
	Ordering     []adminsite.OrderField
	Limit        int
	Offset       int
}

// selectBuilder accumulates WHERE terms with positional arguments.
type selectBuilder struct {
	where []string
	args  []interface{}
}

func (b *selectBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *selectBuilder) eq(column string, v interface{}) {
	b.where = append(b.where, column+" = "+b.arg(v))
}

// search adds an OR of ILIKE terms over the given fields. Fields missing
// from columns are ignored.
func (b *selectBuilder) search(term string, fields []string, columns map[string]string) {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return
	}

	placeholder := ""
	var ors []string
	for _, f := range fields {
		col, ok := columns[f]
		if !ok {
			continue
		}
		if placeholder == "" {
			placeholder = b.arg("%" + escapeLike(term) + "%")
		}
		ors = append(ors, col+" ILIKE "+placeholder)
	}
	if len(ors) > 0 {
		b.where = append(b.where, "("+strings.Join(ors, " OR ")+")")
	}
}

func (b *selectBuilder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// page appends LIMIT/OFFSET placeholders.
func (b *selectBuilder) page(limit, offset int) string {
	return " LIMIT " + b.arg(limit) + " OFFSET " + b.arg(offset)
}

// orderClause renders ORDER BY from whitelisted columns, always ending on
// the primary key so pagination is stable.
func orderClause(ordering []adminsite.OrderField, columns map[string]string, pk string) string {
	terms := make([]string, 0, len(ordering)+1)
	seenPK := false
	for _, o := range ordering {
		col, ok := columns[o.Field]
		if !ok {
			continue
		}
		if col == pk {
			seenPK = true
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		terms = append(terms, col+dir)
	}
	if !seenPK {
		terms = append(terms, pk+" ASC")
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
