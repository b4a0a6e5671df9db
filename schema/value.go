package schema

import (
	"math"
	"strconv"
	"strings"
)

// Value is a data instance. Which payload field is meaningful depends on Kind:
// Str for Text and LongText, Bool for Boolean, Int for Integer and NounReference,
// Float for Float, Items for Array and Fields for Custom.
type Value struct {
	Kind   Kind
	Str    string
	Bool   bool
	Int    int64
	Float  float64
	Items  []Value
	Fields map[string]Value
}

// Null is the absent value. The zero Value is Null.
func Null() Value { return Value{} }

// TextValue wraps a short string.
func TextValue(s string) Value { return Value{Kind: KindText, Str: s} }

// LongTextValue wraps multi-line text.
func LongTextValue(s string) Value { return Value{Kind: KindLongText, Str: s} }

// BooleanValue wraps a bool.
func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// IntegerValue wraps an integer.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// NounReferenceValue points at the noun with the given id.
func NounReferenceValue(id int64) Value { return Value{Kind: KindNounReference, Int: id} }

// ArrayValue builds an array from items, in order.
func ArrayValue(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

// CustomValue builds a record value.
func CustomValue(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{Kind: KindCustom, Fields: fields}
}

// IsNull reports whether v is the absent value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Equal reports structural equality. Floats compare by bit pattern so that NaN
// survives a round trip as equal to itself.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindText, KindLongText:
		return v.Str == o.Str
	case KindBoolean:
		return v.Bool == o.Bool
	case KindInteger, KindNounReference:
		return v.Int == o.Int
	case KindFloat:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindCustom:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for name, field := range v.Fields {
			other, ok := o.Fields[name]
			if !ok || !field.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a compact one-line form, e.g. Custom{age: Integer(30)}.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "Null"
	case KindText, KindLongText:
		return v.Kind.String() + "(" + strconv.Quote(v.Str) + ")"
	case KindBoolean:
		return "Boolean(" + strconv.FormatBool(v.Bool) + ")"
	case KindInteger, KindNounReference:
		return v.Kind.String() + "(" + strconv.FormatInt(v.Int, 10) + ")"
	case KindFloat:
		return "Float(" + strconv.FormatFloat(v.Float, 'g', -1, 64) + ")"
	case KindArray:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}
		return "Array[" + strings.Join(parts, ", ") + "]"
	case KindCustom:
		names := sortedKeys(v.Fields)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+v.Fields[name].String())
		}
		return "Custom{" + strings.Join(parts, ", ") + "}"
	}
	return v.Kind.String()
}
