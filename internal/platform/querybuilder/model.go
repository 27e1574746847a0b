package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert covering every db-tagged field of a struct,
// in field order. The repositories pair it with an ON CONFLICT suffix so a
// single table model drives both the insert and the upsert path.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("insert model: nil model")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert model: %T is not a struct", model)
	}

	typ := value.Type()
	columns := make([]string, 0, typ.NumField())
	values := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		column := dbColumn(typ.Field(i))
		if column == "" {
			continue
		}
		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert model: %T has no db-tagged fields", model)
	}

	return InsertInto(table).Columns(columns...).Values(values...).Suffix(suffix).ToSQL()
}

// dbColumn extracts the column name from a struct field's db tag.
// Unexported fields and "-" tags yield "".
func dbColumn(field reflect.StructField) string {
	if field.PkgPath != "" {
		return ""
	}
	tag := strings.TrimSpace(field.Tag.Get("db"))
	if tag == "" || tag == "-" {
		return ""
	}
	name := strings.TrimSpace(strings.Split(tag, ",")[0])
	if name == "-" {
		return ""
	}
	return name
}
