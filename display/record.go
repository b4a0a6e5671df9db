// Package display renders world records for the terminal or as TOML, YAML or
// JSON documents.
package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/teranos/clwm/schema"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
)

// Field is one named column of a record, in display order.
type Field struct {
	Key   string
	Value interface{}
}

// Record is a flattened entity ready for rendering. Children holds a populated
// attribute subtree.
type Record struct {
	Kind     string
	Fields   []Field
	Children []Record
}

// Glyph returns the symbol for the record's kind.
func (r Record) Glyph() string {
	return sym.ForCommand(r.Kind)
}

// Get returns the value of key, or nil.
func (r Record) Get(key string) interface{} {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// FromNoun flattens a noun. Populated attributes become Children.
func FromNoun(n world.Noun) Record {
	r := Record{Kind: "noun", Fields: []Field{
		{"id", n.ID},
		{"name", n.Name},
		{"noun_type", n.NounType},
		{"metadata", n.Metadata},
		{"last_changed", n.LastChanged},
	}}
	for _, a := range n.Attributes {
		r.Children = append(r.Children, FromAttribute(a))
	}
	return r
}

// FromNounType flattens a noun type.
func FromNounType(nt world.NounType) Record {
	return Record{Kind: "noun-type", Fields: []Field{
		{"id", nt.ID},
		{"type_name", nt.TypeName},
		{"metadata", nt.Metadata},
		{"last_changed", nt.LastChanged},
	}}
}

// FromDataType flattens one data type version.
func FromDataType(dt world.DataType) Record {
	return Record{Kind: "data-type", Fields: []Field{
		{"name", dt.Name},
		{"version", dt.Version},
		{"system_defined", dt.SystemDefined},
		{"definition", dt.Definition},
		{"change_date", dt.ChangeDate},
	}}
}

// FromAttributeType flattens an attribute type.
func FromAttributeType(at world.AttributeType) Record {
	return Record{Kind: "attribute-type", Fields: []Field{
		{"id", at.ID},
		{"attribute_name", at.AttributeName},
		{"data_type", at.DataType},
		{"multiple_allowed", at.MultipleAllowed},
		{"metadata", at.Metadata},
		{"last_changed", at.LastChanged},
	}}
}

// FromAttribute flattens an attribute and its populated children.
func FromAttribute(a world.Attribute) Record {
	r := Record{Kind: "attribute", Fields: []Field{
		{"id", a.ID},
		{"attribute_type_id", a.AttributeTypeID},
		{"parent_noun_id", a.ParentNounID},
		{"parent_attribute_id", a.ParentAttributeID},
		{"data_type_version", a.DataTypeVersion},
		{"data", a.Data},
		{"metadata", a.Metadata},
		{"last_changed", a.LastChanged},
	}}
	for _, c := range a.Children {
		r.Children = append(r.Children, FromAttribute(c))
	}
	return r
}

// Map converts every record helper into records.
func Map[T any](items []T, convert func(T) Record) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

// text renders a field value for terminal output. Unset optionals are empty.
func text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *int64:
		if val == nil {
			return ""
		}
		return strconv.FormatInt(*val, 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Local().Format(time.DateTime)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case schema.Value:
		return val.String()
	case schema.Descriptor:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// tree renders a field value for structured documents. Unset optionals are
// omitted by returning ok=false. With keepSchema set, values and descriptors are
// left for their own MarshalJSON, which handles non-finite floats.
func tree(v interface{}, keepSchema bool) (out interface{}, ok bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case *int64:
		if val == nil {
			return nil, false
		}
		return *val, true
	case *time.Time:
		if val == nil {
			return nil, false
		}
		return val.UTC().Format(time.RFC3339Nano), true
	case schema.Value:
		if keepSchema {
			return val, true
		}
		return val.Tree(), true
	case schema.Descriptor:
		if keepSchema {
			return val, true
		}
		return val.Tree(), true
	default:
		return val, true
	}
}

// Document converts r into a plain map for document encoders.
func (r Record) Document() map[string]interface{} {
	return r.document(false)
}

func (r Record) document(keepSchema bool) map[string]interface{} {
	doc := make(map[string]interface{}, len(r.Fields)+1)
	for _, f := range r.Fields {
		if v, ok := tree(f.Value, keepSchema); ok {
			doc[f.Key] = v
		}
	}
	if len(r.Children) > 0 {
		key := "children"
		if r.Kind == "noun" {
			key = "attributes"
		}
		children := make([]map[string]interface{}, 0, len(r.Children))
		for _, c := range r.Children {
			children = append(children, c.document(keepSchema))
		}
		doc[key] = children
	}
	return doc
}
