// Package schema defines the structural type language used by data types and the
// values stored in attributes.
//
// A Descriptor describes the shape a value must have: one of the primitive kinds,
// an array of some element descriptor, or a custom record mapping field names to
// descriptors. A Value is the matching data instance, with an explicit Null for
// fields that have not been filled in yet.
//
// Both are finite literal trees. They compare structurally with Equal and
// round-trip losslessly through the JSON form used for storage and the TOML form
// used for editing and history diffs.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags a Descriptor or Value variant.
type Kind int

const (
	// KindNull is only valid for values. The zero Value is Null.
	KindNull Kind = iota
	KindText
	KindLongText
	KindBoolean
	KindInteger
	KindFloat
	KindNounReference
	KindArray
	KindCustom
)

var kindNames = map[Kind]string{
	KindNull:          "Null",
	KindText:          "Text",
	KindLongText:      "LongText",
	KindBoolean:       "Boolean",
	KindInteger:       "Integer",
	KindFloat:         "Float",
	KindNounReference: "NounReference",
	KindArray:         "Array",
	KindCustom:        "Custom",
}

// String returns the serialized tag of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPrimitive reports whether k is a leaf kind that a descriptor can name directly.
func (k Kind) IsPrimitive() bool {
	return k >= KindText && k <= KindNounReference
}

// ParseKind resolves a serialized tag.
func ParseKind(name string) (Kind, bool) {
	for kind, n := range kindNames {
		if n == name {
			return kind, true
		}
	}
	return KindNull, false
}

// Descriptor is the shape of a data value.
type Descriptor struct {
	Kind   Kind
	Elem   *Descriptor           // KindArray
	Fields map[string]Descriptor // KindCustom
}

func primitive(k Kind) Descriptor { return Descriptor{Kind: k} }

// Text describes a short single-line string.
func Text() Descriptor { return primitive(KindText) }

// LongText describes free-form multi-line text.
func LongText() Descriptor { return primitive(KindLongText) }

// Boolean describes true or false.
func Boolean() Descriptor { return primitive(KindBoolean) }

// Integer describes a signed 64-bit integer.
func Integer() Descriptor { return primitive(KindInteger) }

// Float describes a 64-bit floating point number.
func Float() Descriptor { return primitive(KindFloat) }

// NounReference describes the id of a noun.
func NounReference() Descriptor { return primitive(KindNounReference) }

// ArrayOf describes an array whose every element has the shape elem.
func ArrayOf(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindArray, Elem: &elem}
}

// Custom describes a record with the given named fields.
func Custom(fields map[string]Descriptor) Descriptor {
	if fields == nil {
		fields = map[string]Descriptor{}
	}
	return Descriptor{Kind: KindCustom, Fields: fields}
}

// Equal reports whether d and o describe the same shape.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case KindArray:
		if d.Elem == nil || o.Elem == nil {
			return d.Elem == o.Elem
		}
		return d.Elem.Equal(*o.Elem)
	case KindCustom:
		if len(d.Fields) != len(o.Fields) {
			return false
		}
		for name, field := range d.Fields {
			other, ok := o.Fields[name]
			if !ok || !field.Equal(other) {
				return false
			}
		}
	}
	return true
}

// Valid reports whether d is a well-formed descriptor: a primitive kind, an array
// with a valid element, or a record whose fields are all valid.
func (d Descriptor) Valid() bool {
	switch {
	case d.Kind.IsPrimitive():
		return true
	case d.Kind == KindArray:
		return d.Elem != nil && d.Elem.Valid()
	case d.Kind == KindCustom:
		for _, field := range d.Fields {
			if !field.Valid() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a compact one-line form, e.g. Custom{age: Integer, tags: Array(Text)}.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindArray:
		if d.Elem == nil {
			return "Array(?)"
		}
		return "Array(" + d.Elem.String() + ")"
	case KindCustom:
		names := sortedKeys(d.Fields)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+d.Fields[name].String())
		}
		return "Custom{" + strings.Join(parts, ", ") + "}"
	default:
		return d.Kind.String()
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
