// Package querybuilder assembles the small set of SQL shapes the
// repositories need: filtered selects, upsert-style inserts, and targeted
// updates. Placeholders are Postgres-numbered ($1, $2, ...).
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Cond is one WHERE fragment. Args fill the fragment's ? markers in order;
// numbering happens when the statement is rendered.
type Cond struct {
	frag string
	args []any
}

// Eq matches a column against a bound value.
func Eq(column string, value any) Cond {
	return Cond{frag: column + " = ?", args: []any{value}}
}

// Expr injects a raw fragment, with ? markers bound to args in order.
func Expr(frag string, args ...any) Cond {
	return Cond{frag: frag, args: args}
}

// stmt accumulates SQL text and bound arguments with running placeholder
// numbering.
type stmt struct {
	sql  strings.Builder
	args []any
	next int
}

func newStmt() *stmt {
	return &stmt{next: 1}
}

func (s *stmt) raw(text string) {
	s.sql.WriteString(text)
}

func (s *stmt) bind(value any) {
	s.sql.WriteString("$" + strconv.Itoa(s.next))
	s.args = append(s.args, value)
	s.next++
}

// cond writes one fragment, replacing each ? with the next placeholder.
// A fragment without markers passes through untouched.
func (s *stmt) cond(c Cond) error {
	bound := 0
	for i := 0; i < len(c.frag); i++ {
		if c.frag[i] != '?' {
			s.sql.WriteByte(c.frag[i])
			continue
		}
		if bound >= len(c.args) {
			return fmt.Errorf("condition %q has more markers than args", c.frag)
		}
		s.bind(c.args[bound])
		bound++
	}
	if bound < len(c.args) {
		return fmt.Errorf("condition %q has %d unused args", c.frag, len(c.args)-bound)
	}
	return nil
}

func (s *stmt) where(conds []Cond) error {
	for i, c := range conds {
		if i == 0 {
			s.raw(" WHERE ")
		} else {
			s.raw(" AND ")
		}
		if err := s.cond(c); err != nil {
			return err
		}
	}
	return nil
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Cond
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Cond) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select: no columns")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select: no table")
	}

	s := newStmt()
	s.raw("SELECT ")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(" FROM ")
	s.raw(b.table)
	if err := s.where(b.conds); err != nil {
		return "", nil, err
	}
	if len(b.orderBy) > 0 {
		s.raw(" ORDER BY ")
		s.raw(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.raw(" LIMIT ")
		s.raw(strconv.Itoa(b.limit))
	}
	return s.sql.String(), s.args, nil
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
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL after the VALUES list, typically an
// ON CONFLICT clause or RETURNING. The text carries no bound arguments.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert: no table")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert: no columns")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert: no values")
	}

	s := newStmt()
	s.raw("INSERT INTO ")
	s.raw(b.table)
	s.raw(" (")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			s.raw(", ")
		}
		s.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				s.raw(", ")
			}
			s.bind(value)
		}
		s.raw(")")
	}
	if b.suffix != "" {
		s.raw(" ")
		s.raw(b.suffix)
	}
	return s.sql.String(), s.args, nil
}

type assignment struct {
	column string
	value  any
	rawSQL string
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	conds []Cond
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set binds a value to a column.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, e.g. NOW().
func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, rawSQL: expr})
	return b
}

func (b *UpdateBuilder) Where(conds ...Cond) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update: no table")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update: no assignments")
	}

	s := newStmt()
	s.raw("UPDATE ")
	s.raw(b.table)
	s.raw(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.raw(", ")
		}
		s.raw(set.column)
		s.raw(" = ")
		if set.rawSQL != "" {
			s.raw(set.rawSQL)
			continue
		}
		s.bind(set.value)
	}
	if err := s.where(b.conds); err != nil {
		return "", nil, err
	}
	return s.sql.String(), s.args, nil
}
