// Package query описывает фильтры для коллекций filedb и вычисляет их над записями.
//
// Фильтр — дерево из вариантов Equals, Regex, ArrayContainsAny, Or и And.
// Match обходит его рекурсивно; пустой And совпадает с любой записью.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Query — узел фильтра. Реализуется только типами этого пакета.
type Query interface {
	isQuery()
}

// EqualsQuery — строгое равенство скалярного поля.
type EqualsQuery struct {
	Field string
	Value any
}

// RegexQuery — проверка строкового поля (или любого строкового элемента массива) регулярным выражением.
type RegexQuery struct {
	Field   string
	Pattern string
	Options string
	re      *regexp.Regexp
}

// ArrayContainsAnyQuery — поле-массив содержит хотя бы одно из значений.
type ArrayContainsAnyQuery struct {
	Field  string
	Values []any
}

// OrQuery совпадает, если совпал хотя бы один подзапрос.
type OrQuery struct {
	Queries []Query
}

// AndQuery совпадает, если совпали все подзапросы.
type AndQuery struct {
	Queries []Query
}

func (EqualsQuery) isQuery()           {}
func (*RegexQuery) isQuery()           {}
func (ArrayContainsAnyQuery) isQuery() {}
func (OrQuery) isQuery()               {}
func (AndQuery) isQuery()              {}

// All возвращает пустой запрос, которому соответствует любая запись.
func All() Query {
	return AndQuery{}
}

// Equals строит условие field == value.
func Equals(field string, value any) Query {
	return EqualsQuery{Field: field, Value: value}
}

// ArrayContainsAny строит условие "элемент field входит в values".
func ArrayContainsAny(field string, values ...any) Query {
	return ArrayContainsAnyQuery{Field: field, Values: values}
}

// Or объединяет условия через ИЛИ. Or без аргументов не совпадает ни с чем.
func Or(queries ...Query) Query {
	return OrQuery{Queries: queries}
}

// And объединяет условия через И, пропуская nil.
func And(queries ...Query) Query {
	q := AndQuery{}
	for _, sub := range queries {
		if sub != nil {
			q.Queries = append(q.Queries, sub)
		}
	}
	return q
}

// Regex компилирует pattern с флагами options (i, m, s).
func Regex(field, pattern, options string) (Query, error) {
	const op = "query.Regex"

	var flags strings.Builder
	for _, o := range options {
		switch o {
		case 'i', 'm', 's':
			if !strings.ContainsRune(flags.String(), o) {
				flags.WriteRune(o)
			}
		default:
			return nil, fmt.Errorf("%s: unsupported option %q", op, o)
		}
	}
	expr := pattern
	if flags.Len() > 0 {
		expr = "(?" + flags.String() + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RegexQuery{Field: field, Pattern: pattern, Options: options, re: re}, nil
}

// MustRegex как Regex, но паникует на некорректном выражении.
func MustRegex(field, pattern, options string) Query {
	q, err := Regex(field, pattern, options)
	if err != nil {
		panic(err)
	}
	return q
}

// Search ищет term как подстроку без учёта регистра в любом из полей.
// Спецсимволы регулярных выражений в term экранируются.
func Search(term string, fields ...string) Query {
	quoted := regexp.QuoteMeta(term)
	subs := make([]Query, 0, len(fields))
	for _, f := range fields {
		subs = append(subs, MustRegex(f, quoted, "i"))
	}
	return Or(subs...)
}
