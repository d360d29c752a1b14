package button

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// urlAttributes are sanitised through templ.URL when given as plain strings.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"cite":       true,
}

// validAttributeName follows the HTML attribute-name grammar: no controls,
// no whitespace and none of " ' > / = <.
func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= 0x20 || r == 0x7f {
			return false
		}
		switch r {
		case '"', '\'', '>', '/', '=', '<':
			return false
		}
	}
	return true
}

// writeAttributes renders attrs in name order. True booleans become bare
// attributes; false booleans and nil values are omitted.
func writeAttributes(w io.Writer, attrs templ.Attributes) error {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, ok := attributeValue(name, attrs[name])
		if !ok {
			continue
		}
		var err error
		if value == nil {
			_, err = io.WriteString(w, " "+templ.EscapeString(name))
		} else {
			_, err = io.WriteString(w, " "+templ.EscapeString(name)+`="`+templ.EscapeString(*value)+`"`)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// attributeValue returns the string form of v. A nil string with ok set
// means a bare attribute.
func attributeValue(name string, v any) (*string, bool) {
	var s string
	switch v := v.(type) {
	case nil:
		return nil, false
	case bool:
		return nil, v
	case templ.SafeURL:
		s = string(v)
	case string:
		if urlAttributes[strings.ToLower(name)] {
			s = string(templ.URL(v))
		} else {
			s = v
		}
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return &s, true
}

// mergeClass appends extra classes after the resolved ones.
func mergeClass(resolved string, extra any) string {
	var more string
	switch v := extra.(type) {
	case nil:
	case string:
		more = v
	default:
		more = fmt.Sprint(v)
	}
	more = strings.TrimSpace(more)
	if more == "" {
		return resolved
	}
	return resolved + " " + more
}
