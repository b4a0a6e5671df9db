package schema

import (
	"sort"
	"strings"

	burnt "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/clwm/errors"
)

// Document keys used by the editable TOML forms.
const (
	DefinitionKey = "definition"
	DataKey       = "data"
)

// EncodeDescriptorTOML renders d as a TOML document with a single "definition" key.
// The output is deterministic, which keeps history diffs minimal.
func EncodeDescriptorTOML(d Descriptor) (string, error) {
	return encodeDocument(DefinitionKey, d.Tree())
}

// EncodeValueTOML renders v as a TOML document with a single "data" key.
func EncodeValueTOML(v Value) (string, error) {
	return encodeDocument(DataKey, v.Tree())
}

// DecodeDescriptorTOML parses a document produced by EncodeDescriptorTOML or
// written by hand. Unknown top-level keys are rejected.
func DecodeDescriptorTOML(doc string) (Descriptor, error) {
	tree, err := decodeDocument(DefinitionKey, doc)
	if err != nil {
		return Descriptor{}, err
	}
	return DescriptorFromTree(tree)
}

// DecodeValueTOML parses a document produced by EncodeValueTOML or written by hand.
func DecodeValueTOML(doc string) (Value, error) {
	tree, err := decodeDocument(DataKey, doc)
	if err != nil {
		return Value{}, err
	}
	return ValueFromTree(tree)
}

func encodeDocument(key string, tree interface{}) (string, error) {
	out, err := toml.Marshal(map[string]interface{}{key: tree})
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", key)
	}
	return string(out), nil
}

func decodeDocument(key, doc string) (interface{}, error) {
	var raw map[string]interface{}
	md, err := burnt.Decode(doc, &raw)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parse %s document", key), ErrMalformed)
	}

	var unknown []string
	for name := range raw {
		if name != key {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Mark(
			errors.Newf("unexpected keys in %s document: %s", key, strings.Join(unknown, ", ")),
			ErrMalformed)
	}

	tree, ok := raw[key]
	if !ok || !md.IsDefined(key) {
		return nil, errors.Mark(errors.Newf("document has no %q key", key), ErrMalformed)
	}
	return tree, nil
}
