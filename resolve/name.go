package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var prefixes = []string{"Get", "Is", "Set", "get", "is", "set"}

// DecodeName maps an operation name to a field name.  A leading Get, Is or
// Set (in either case) is dropped when an upper-case rune follows it, and
// the first remaining rune is lower-cased: GetName, IsActive and SetName
// decode to name, active and name; Settings decodes to settings.
func DecodeName(op string) string {
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(op, p)
		if !ok || rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) {
			op = rest
			break
		}
	}
	r, n := utf8.DecodeRuneInString(op)
	if r == utf8.RuneError {
		return op
	}
	return string(unicode.ToLower(r)) + op[n:]
}
