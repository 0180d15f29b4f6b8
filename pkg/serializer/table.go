package serializer

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerCaser = cases.Upper(language.English)

// writeTable renders v as a two-column table of flattened field paths and
// their values.
func writeTable(out io.Writer, v any) error {
	rows := map[string]string{}
	flatten("", reflect.ValueOf(v), rows)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", headerCaser.String("field"), headerCaser.String("value"))

	if len(rows) == 0 {
		fmt.Fprintf(tw, "%s\t\n", "<empty>")
		return tw.Flush()
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	return tw.Flush()
}

// flatten walks v and records scalar leaves under dotted key paths.
func flatten(prefix string, v reflect.Value, rows map[string]string) {
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			if prefix != "" {
				rows[prefix] = "<nil>"
			}
			return
		}
		flatten(prefix, v.Elem(), rows)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			flatten(joinKey(prefix, field.Name), v.Field(i), rows)
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			flatten(joinKey(prefix, fmt.Sprint(key.Interface())), v.MapIndex(key), rows)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), rows)
		}
	default:
		if prefix == "" {
			prefix = "value"
		}
		rows[prefix] = fmt.Sprint(v.Interface())
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
