// Package slug строит URL-идентификаторы инструментов каталога из их названий.
package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make приводит имя к нижнему регистру, заменяет каждую серию символов вне [a-z0-9]
// одним дефисом и обрезает дефисы по краям.
//
//	Make("Physics Wallah") == "physics-wallah"
//	Make("A!!B  C")        == "a-b-c"
func Make(name string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
