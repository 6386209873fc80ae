// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering placeholders as $1, $2, ...
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and its positional arguments.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

// bind appends v and writes its placeholder.
func (s *stmt) bind(v any) {
	s.args = append(s.args, v)
	s.sql.WriteString("$" + strconv.Itoa(len(s.args)))
}

// expr writes raw SQL, binding one argument per '?' in order. Surplus '?'
// characters are kept verbatim.
func (s *stmt) expr(raw string, args []any) {
	if len(args) == 0 {
		s.sql.WriteString(raw)
		return
	}
	next := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '?' && next < len(args) {
			s.bind(args[next])
			next++
			continue
		}
		s.sql.WriteByte(raw[i])
	}
}

func (s *stmt) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c(s)
	}
}

func (s *stmt) result() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

// Condition renders one predicate into a statement.
type Condition func(*stmt)

func Eq(column string, value any) Condition {
	return func(s *stmt) {
		s.write(column, " = ")
		s.bind(value)
	}
}

// Any renders `column = ANY($n)`; value should be a driver array such as pq.Array.
func Any(column string, value any) Condition {
	return func(s *stmt) {
		s.write(column, " = ANY(")
		s.bind(value)
		s.write(")")
	}
}

// Expr is a raw predicate with '?' placeholders.
func Expr(raw string, args ...any) Condition {
	return func(s *stmt) { s.expr(raw, args) }
}

// Or joins conditions inside parentheses. No conditions never matches.
func Or(conds ...Condition) Condition {
	return func(s *stmt) {
		if len(conds) == 0 {
			s.write("1=0")
			return
		}
		s.write("(")
		for i, c := range conds {
			if i > 0 {
				s.write(" OR ")
			}
			c(s)
		}
		s.write(")")
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("select: no columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("select: no table")
	}

	var s stmt
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.conds)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return s.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

// Values adds one row; call it again for multi-row inserts.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert: no table")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert: no columns")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert: no rows")
	}

	var s stmt
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		s.write("(")
		for j, v := range row {
			if j > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.result()
}

type UpdateBuilder struct {
	table  string
	sets   []Condition
	conds  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, Eq(column, value))
	return b
}

// SetExpr assigns a raw expression, e.g. SetExpr("updated_at", "NOW()").
func (b *UpdateBuilder) SetExpr(column, raw string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, func(s *stmt) {
		s.write(column, " = ")
		s.expr(raw, args)
	})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("update: no table")
	case len(b.sets) == 0:
		return "", nil, fmt.Errorf("update: no assignments")
	}

	var s stmt
	s.write("UPDATE ", b.table, " SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		set(&s)
	}
	s.where(b.conds)
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.result()
}
