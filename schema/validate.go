package schema

import "unicode/utf8"

// Validate reports whether value has the shape described by d.
//
// A Null value passes anywhere when allowNull is set; allowNull propagates into
// array elements and record fields. Primitive kinds must match exactly, there is
// no coercion between Integer and Float.
//
// For Custom descriptors every field present in the value must be declared and
// valid. Declared fields missing from the value are not reported.
//
// Text, LongText and record field names must be valid UTF-8; the JSON and TOML
// forms cannot carry anything else.
func Validate(value Value, d Descriptor, allowNull bool) bool {
	if value.IsNull() && allowNull {
		return true
	}

	switch d.Kind {
	case KindText, KindLongText:
		return value.Kind == d.Kind && utf8.ValidString(value.Str)
	case KindBoolean, KindInteger, KindFloat, KindNounReference:
		return value.Kind == d.Kind
	case KindArray:
		if value.Kind != KindArray || d.Elem == nil {
			return false
		}
		for _, item := range value.Items {
			if !Validate(item, *d.Elem, allowNull) {
				return false
			}
		}
		return true
	case KindCustom:
		if value.Kind != KindCustom {
			return false
		}
		for name, field := range value.Fields {
			fd, ok := d.Fields[name]
			if !ok || !utf8.ValidString(name) || !Validate(field, fd, allowNull) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
