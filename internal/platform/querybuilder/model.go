package querybuilder

import (
	"errors"
	"reflect"
	"slices"
	"strings"
)

// InsertModel builds an INSERT from the `db` tags of a struct row.
func InsertModel(table string, model any) (string, []any, error) {
	b, err := insertFromModel(table, model)
	if err != nil {
		return "", nil, err
	}
	return b.ToSQL()
}

// UpsertModel builds an INSERT ... ON CONFLICT (conflict) DO UPDATE that
// overwrites every model column except the conflict key and preserve.
func UpsertModel(table string, model any, conflict []string, preserve ...string) (string, []any, error) {
	if len(conflict) == 0 {
		return "", nil, errors.New("upsert requires a conflict key")
	}
	b, err := insertFromModel(table, model)
	if err != nil {
		return "", nil, err
	}

	update := make([]string, 0, len(b.columns))
	for _, col := range b.columns {
		if slices.Contains(conflict, col) || slices.Contains(preserve, col) {
			continue
		}
		update = append(update, col)
	}
	return b.OnConflictUpdate(conflict, update...).ToSQL()
}

func insertFromModel(table string, model any) (*InsertBuilder, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, errors.New("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.New("model must be a struct")
	}

	b := InsertInto(table)
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		b.Set(col, v.Field(i).Interface())
	}
	if len(b.columns) == 0 {
		return nil, errors.New("model has no db columns")
	}
	return b, nil
}
