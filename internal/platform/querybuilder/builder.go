// Package querybuilder assembles the small set of statements the SQL store
// needs. Every builder emits "?" placeholders; callers rebind them for their
// driver (sqlx.Rebind) so one statement serves PostgreSQL and SQLite.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("table is required")
	errNoColumns = errors.New("columns are required")
)

// Condition renders one boolean SQL term and collects its arguments.
type Condition interface {
	render(w *writer)
}

type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) str(s string) {
	w.sql.WriteString(s)
}

func (w *writer) arg(v any) {
	w.sql.WriteByte('?')
	w.args = append(w.args, v)
}

// raw writes expr verbatim and appends its bound values. expr must carry
// exactly one "?" per value.
func (w *writer) raw(expr string, values []any) {
	w.sql.WriteString(expr)
	w.args = append(w.args, values...)
}

func (w *writer) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.str(" WHERE ")
		} else {
			w.str(" AND ")
		}
		c.render(w)
	}
}

type condFunc func(w *writer)

func (f condFunc) render(w *writer) { f(w) }

func Eq(column string, value any) Condition {
	return condFunc(func(w *writer) {
		w.str(column)
		w.str(" = ")
		w.arg(value)
	})
}

// In matches column against values. An empty list matches nothing.
func In(column string, values []any) Condition {
	return condFunc(func(w *writer) {
		if len(values) == 0 {
			w.str("1=0")
			return
		}
		w.str(column)
		w.str(" IN (")
		for i, v := range values {
			if i > 0 {
				w.str(", ")
			}
			w.arg(v)
		}
		w.str(")")
	})
}

func IsNull(column string) Condition {
	return condFunc(func(w *writer) {
		w.str(column)
		w.str(" IS NULL")
	})
}

// Expr embeds a hand-written term such as "LOWER(name) = LOWER(?)".
func Expr(expr string, args ...any) Condition {
	return condFunc(func(w *writer) {
		w.raw(expr, args)
	})
}

// Or joins conditions with OR inside one parenthesized group.
func Or(conditions ...Condition) Condition {
	return condFunc(func(w *writer) {
		if len(conditions) == 0 {
			w.str("1=0")
			return
		}
		w.str("(")
		for i, c := range conditions {
			if i > 0 {
				w.str(" OR ")
			}
			c.render(w)
		}
		w.str(")")
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
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

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
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
		return "", nil, errNoColumns
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}

	var w writer
	w.str("SELECT ")
	w.str(strings.Join(b.columns, ", "))
	w.str(" FROM ")
	w.str(b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.str(" ORDER BY ")
		w.str(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.str(" LIMIT ")
		w.str(strconv.Itoa(b.limit))
	}
	return w.sql.String(), w.args, nil
}

// InsertBuilder writes a single-row INSERT, optionally as an upsert.
type InsertBuilder struct {
	table    string
	columns  []string
	values   []any
	conflict []string
	update   []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set adds one column/value pair.
func (b *InsertBuilder) Set(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// OnConflictUpdate turns the insert into an upsert that overwrites update
// with the incoming values when a row with the same conflict key exists.
func (b *InsertBuilder) OnConflictUpdate(conflict []string, update ...string) *InsertBuilder {
	b.conflict = conflict
	b.update = update
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}
	if len(b.columns) == 0 {
		return "", nil, errNoColumns
	}

	var w writer
	w.str("INSERT INTO ")
	w.str(b.table)
	w.str(" (")
	w.str(strings.Join(b.columns, ", "))
	w.str(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.str(", ")
		}
		w.arg(v)
	}
	w.str(")")

	if len(b.conflict) > 0 {
		w.str(" ON CONFLICT (")
		w.str(strings.Join(b.conflict, ", "))
		if len(b.update) == 0 {
			w.str(") DO NOTHING")
		} else {
			w.str(") DO UPDATE SET ")
			for i, col := range b.update {
				if i > 0 {
					w.str(", ")
				}
				w.str(col)
				w.str(" = EXCLUDED.")
				w.str(col)
			}
		}
	}
	return w.sql.String(), w.args, nil
}

type UpdateBuilder struct {
	table string
	sets  []Condition
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, Eq(column, value))
	return b
}

// SetExpr assigns a hand-written expression, e.g. "CURRENT_TIMESTAMP".
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, Expr(column+" = "+expr, args...))
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}
	if len(b.sets) == 0 {
		return "", nil, errNoColumns
	}

	var w writer
	w.str("UPDATE ")
	w.str(b.table)
	w.str(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.str(", ")
		}
		s.render(&w)
	}
	w.where(b.where)
	return w.sql.String(), w.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an unfiltered delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}
	if len(b.where) == 0 {
		return "", nil, errors.New("delete requires at least one condition")
	}

	var w writer
	w.str("DELETE FROM ")
	w.str(b.table)
	w.where(b.where)
	return w.sql.String(), w.args, nil
}
