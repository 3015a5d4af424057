package query

import (
	"reflect"
	"strings"

	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
)

// Match сообщает, удовлетворяет ли запись запросу. nil-запрос совпадает со всем.
func Match(record filedb.Record, q Query) bool {
	switch q := q.(type) {
	case nil:
		return true
	case AndQuery:
		for _, sub := range q.Queries {
			if !Match(record, sub) {
				return false
			}
		}
		return true
	case OrQuery:
		for _, sub := range q.Queries {
			if Match(record, sub) {
				return true
			}
		}
		return false
	case EqualsQuery:
		got, ok := lookup(record, q.Field)
		if !ok {
			return q.Value == nil
		}
		return equal(got, q.Value)
	case ArrayContainsAnyQuery:
		got, ok := lookup(record, q.Field)
		if !ok {
			return false
		}
		elems, isArray := got.([]any)
		if !isArray {
			elems = []any{got}
		}
		for _, e := range elems {
			for _, want := range q.Values {
				if equal(e, want) {
					return true
				}
			}
		}
		return false
	case *RegexQuery:
		got, ok := lookup(record, q.Field)
		if !ok {
			return false
		}
		switch v := got.(type) {
		case string:
			return q.re.MatchString(v)
		case []any:
			for _, e := range v {
				if s, isString := e.(string); isString && q.re.MatchString(s) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// Filter возвращает записи, удовлетворяющие запросу, сохраняя порядок.
func Filter(records []filedb.Record, q Query) []filedb.Record {
	out := make([]filedb.Record, 0, len(records))
	for _, r := range records {
		if Match(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// lookup достаёт значение поля; точка в имени обращается к вложенному объекту.
func lookup(record filedb.Record, field string) (any, bool) {
	var cur any = map[string]any(record)
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// equal сравнивает два скаляра после приведения чисел к float64, а именованных строк к string.
// Массивы и объекты не равны ничему.
func equal(a, b any) bool {
	na, okA := scalar(a)
	nb, okB := scalar(b)
	if !okA || !okB {
		return false
	}
	return na == nb
}

func scalar(v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return nil, false
	}
}
