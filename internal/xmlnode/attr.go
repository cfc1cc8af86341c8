// Package xmlnode provides typed attribute access over etree elements.
package xmlnode

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Str returns the named attribute's value and whether it is present.
func Str(el *etree.Element, name string) (string, bool) {
	attr := el.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// StrDefault returns the named attribute's value, or def when absent.
func StrDefault(el *etree.Element, name, def string) string {
	return el.SelectAttrValue(name, def)
}

// Int returns the named attribute parsed as an integer and whether it is
// present. A present but unparsable value is an error.
func Int(el *etree.Element, name string) (int, bool, error) {
	text, ok := Str(el, name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, true, errors.Errorf("%s node has a non-integer %q attribute %q", el.Tag, name, text)
	}
	return v, true, nil
}

// IntDefault returns the named attribute parsed as an integer, or def when
// absent.
func IntDefault(el *etree.Element, name string, def int) (int, error) {
	v, ok, err := Int(el, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}
