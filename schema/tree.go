package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/teranos/clwm/errors"
)

// ErrMalformed marks serialized descriptors or values that cannot be decoded.
var ErrMalformed = errors.New("malformed schema document")

func malformed(path, format string, args ...interface{}) error {
	if path == "" {
		path = "$"
	}
	return errors.Mark(errors.Newf("%s: "+format, append([]interface{}{path}, args...)...), ErrMalformed)
}

func child(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Tree converts d to the generic form shared by the JSON and TOML encodings:
// primitives are their tag name, arrays are {"Array": elem} and records are
// {"Custom": {field: descriptor}}.
func (d Descriptor) Tree() interface{} {
	switch d.Kind {
	case KindArray:
		var elem interface{}
		if d.Elem != nil {
			elem = d.Elem.Tree()
		}
		return map[string]interface{}{KindArray.String(): elem}
	case KindCustom:
		fields := make(map[string]interface{}, len(d.Fields))
		for name, field := range d.Fields {
			fields[name] = field.Tree()
		}
		return map[string]interface{}{KindCustom.String(): fields}
	default:
		return d.Kind.String()
	}
}

// DescriptorFromTree is the inverse of Descriptor.Tree.
func DescriptorFromTree(tree interface{}) (Descriptor, error) {
	return descriptorFromTree("", tree)
}

func descriptorFromTree(path string, tree interface{}) (Descriptor, error) {
	switch t := tree.(type) {
	case string:
		kind, ok := ParseKind(t)
		if !ok || !kind.IsPrimitive() {
			return Descriptor{}, malformed(path, "unknown primitive type %q", t)
		}
		return primitive(kind), nil
	case map[string]interface{}:
		tag, payload, err := singleEntry(path, t)
		if err != nil {
			return Descriptor{}, err
		}
		switch tag {
		case KindArray.String():
			elem, err := descriptorFromTree(child(path, tag), payload)
			if err != nil {
				return Descriptor{}, err
			}
			return ArrayOf(elem), nil
		case KindCustom.String():
			raw, ok := payload.(map[string]interface{})
			if !ok {
				return Descriptor{}, malformed(path, "Custom expects a table of fields, got %T", payload)
			}
			fields := make(map[string]Descriptor, len(raw))
			for name, sub := range raw {
				field, err := descriptorFromTree(child(child(path, tag), name), sub)
				if err != nil {
					return Descriptor{}, err
				}
				fields[name] = field
			}
			return Custom(fields), nil
		default:
			return Descriptor{}, malformed(path, "unknown composite type %q", tag)
		}
	default:
		return Descriptor{}, malformed(path, "unexpected %T in type definition", tree)
	}
}

// Tree converts v to the generic form: Null is the string "Null", every other
// variant is a single-entry table {tag: payload}.
func (v Value) Tree() interface{} {
	var payload interface{}
	switch v.Kind {
	case KindNull:
		return KindNull.String()
	case KindText, KindLongText:
		payload = v.Str
	case KindBoolean:
		payload = v.Bool
	case KindInteger, KindNounReference:
		payload = v.Int
	case KindFloat:
		payload = v.Float
	case KindArray:
		items := make([]interface{}, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Tree()
		}
		payload = items
	case KindCustom:
		fields := make(map[string]interface{}, len(v.Fields))
		for name, field := range v.Fields {
			fields[name] = field.Tree()
		}
		payload = fields
	}
	return map[string]interface{}{v.Kind.String(): payload}
}

// ValueFromTree is the inverse of Value.Tree. It accepts the number and array
// representations produced by encoding/json (with UseNumber) and both TOML decoders.
func ValueFromTree(tree interface{}) (Value, error) {
	return valueFromTree("", tree)
}

func valueFromTree(path string, tree interface{}) (Value, error) {
	switch t := tree.(type) {
	case string:
		if t != KindNull.String() {
			return Value{}, malformed(path, "unexpected bare string %q (only \"Null\" is allowed)", t)
		}
		return Null(), nil
	case map[string]interface{}:
		tag, payload, err := singleEntry(path, t)
		if err != nil {
			return Value{}, err
		}
		kind, ok := ParseKind(tag)
		if !ok || kind == KindNull {
			return Value{}, malformed(path, "unknown value type %q", tag)
		}
		return valuePayload(child(path, tag), kind, payload)
	default:
		return Value{}, malformed(path, "unexpected %T in data", tree)
	}
}

func valuePayload(path string, kind Kind, payload interface{}) (Value, error) {
	switch kind {
	case KindText, KindLongText:
		s, ok := payload.(string)
		if !ok {
			return Value{}, malformed(path, "expected string, got %T", payload)
		}
		return Value{Kind: kind, Str: s}, nil
	case KindBoolean:
		b, ok := payload.(bool)
		if !ok {
			return Value{}, malformed(path, "expected boolean, got %T", payload)
		}
		return BooleanValue(b), nil
	case KindInteger, KindNounReference:
		i, err := asInt(path, payload)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Int: i}, nil
	case KindFloat:
		f, err := asFloat(path, payload)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case KindArray:
		raw, err := asList(path, payload)
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, len(raw))
		for i, sub := range raw {
			item, err := valueFromTree(path+"["+strconv.Itoa(i)+"]", sub)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return ArrayValue(items...), nil
	case KindCustom:
		raw, ok := payload.(map[string]interface{})
		if !ok {
			return Value{}, malformed(path, "Custom expects a table of fields, got %T", payload)
		}
		fields := make(map[string]Value, len(raw))
		for name, sub := range raw {
			field, err := valueFromTree(child(path, name), sub)
			if err != nil {
				return Value{}, err
			}
			fields[name] = field
		}
		return CustomValue(fields), nil
	}
	return Value{}, malformed(path, "unsupported value type %s", kind)
}

func singleEntry(path string, m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, malformed(path, "expected exactly one type tag, got %d keys", len(m))
	}
	for tag, payload := range m {
		return tag, payload, nil
	}
	return "", nil, nil
}

func asInt(path string, payload interface{}) (int64, error) {
	switch n := payload.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, malformed(path, "expected integer, got %s", n.String())
		}
		return i, nil
	default:
		return 0, malformed(path, "expected integer, got %T", payload)
	}
}

func asFloat(path string, payload interface{}) (float64, error) {
	switch n := payload.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, malformed(path, "expected float, got %s", n.String())
		}
		return f, nil
	case string:
		// JSON has no literal for these.
		switch n {
		case "NaN":
			return math.NaN(), nil
		case "+Inf":
			return math.Inf(1), nil
		case "-Inf":
			return math.Inf(-1), nil
		}
	}
	return 0, malformed(path, "expected float, got %T", payload)
}

func asList(path string, payload interface{}) ([]interface{}, error) {
	switch l := payload.(type) {
	case []interface{}:
		return l, nil
	case []map[string]interface{}:
		// BurntSushi/toml decodes arrays of tables this way.
		out := make([]interface{}, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, nil
	default:
		return nil, malformed(path, "expected array, got %T", payload)
	}
}

// jsonTree replaces non-finite floats, which JSON cannot carry, with their
// string spellings. asFloat reverses this.
func jsonTree(tree interface{}) interface{} {
	switch t := tree.(type) {
	case float64:
		switch {
		case math.IsNaN(t):
			return "NaN"
		case math.IsInf(t, 1):
			return "+Inf"
		case math.IsInf(t, -1):
			return "-Inf"
		}
		return t
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = jsonTree(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for key, item := range t {
			out[key] = jsonTree(item)
		}
		return out
	}
	return tree
}

func decodeJSONTree(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode json"), ErrMalformed)
	}
	return tree, nil
}

// MarshalJSON implements json.Marshaler.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Tree())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	tree, err := decodeJSONTree(data)
	if err != nil {
		return err
	}
	parsed, err := DescriptorFromTree(tree)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTree(v.Tree()))
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	tree, err := decodeJSONTree(data)
	if err != nil {
		return err
	}
	parsed, err := ValueFromTree(tree)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
