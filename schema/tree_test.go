package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clwm/errors"
)

func sampleDescriptors() map[string]Descriptor {
	return map[string]Descriptor{
		"text":           Text(),
		"long text":      LongText(),
		"boolean":        Boolean(),
		"integer":        Integer(),
		"float":          Float(),
		"noun reference": NounReference(),
		"array":          ArrayOf(Integer()),
		"nested array":   ArrayOf(ArrayOf(Text())),
		"empty record":   Custom(nil),
		"record": Custom(map[string]Descriptor{
			"name":    Text(),
			"age":     Integer(),
			"tags":    ArrayOf(Text()),
			"address": Custom(map[string]Descriptor{"city": Text(), "zip": Integer()}),
			"people":  ArrayOf(Custom(map[string]Descriptor{"who": NounReference()})),
		}),
	}
}

func sampleValues() map[string]Value {
	return map[string]Value{
		"null":           Null(),
		"text":           TextValue("Alice \"the first\""),
		"long text":      LongTextValue("line one\nline two\n"),
		"boolean":        BooleanValue(true),
		"integer":        IntegerValue(-42),
		"large integer":  IntegerValue(math.MaxInt64),
		"float":          FloatValue(30),
		"fraction":       FloatValue(0.125),
		"nan":            FloatValue(math.NaN()),
		"infinity":       FloatValue(math.Inf(-1)),
		"noun reference": NounReferenceValue(12),
		"empty array":    ArrayValue(),
		"array":          ArrayValue(IntegerValue(1), Null(), IntegerValue(3)),
		"array of records": ArrayValue(
			CustomValue(map[string]Value{"who": NounReferenceValue(1)}),
			CustomValue(map[string]Value{"who": NounReferenceValue(2)}),
		),
		"empty record": CustomValue(nil),
		"record": CustomValue(map[string]Value{
			"name":    TextValue("Alice"),
			"age":     Null(),
			"tags":    ArrayValue(TextValue("a"), TextValue("b")),
			"address": CustomValue(map[string]Value{"city": TextValue("Lisbon")}),
		}),
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	for name, desc := range sampleDescriptors() {
		t.Run(name+"/json", func(t *testing.T) {
			data, err := json.Marshal(desc)
			require.NoError(t, err)

			var decoded Descriptor
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, desc.Equal(decoded), "%s != %s", desc, decoded)
		})

		t.Run(name+"/toml", func(t *testing.T) {
			doc, err := EncodeDescriptorTOML(desc)
			require.NoError(t, err)

			decoded, err := DecodeDescriptorTOML(doc)
			require.NoError(t, err, doc)
			assert.True(t, desc.Equal(decoded), "%s != %s\n%s", desc, decoded, doc)
		})
	}
}

func TestValueRoundTrip(t *testing.T) {
	for name, value := range sampleValues() {
		t.Run(name+"/json", func(t *testing.T) {
			data, err := json.Marshal(value)
			require.NoError(t, err)

			var decoded Value
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, value.Equal(decoded), "%s != %s", value, decoded)
		})

		t.Run(name+"/toml", func(t *testing.T) {
			doc, err := EncodeValueTOML(value)
			require.NoError(t, err)

			decoded, err := DecodeValueTOML(doc)
			require.NoError(t, err, doc)
			assert.True(t, value.Equal(decoded), "%s != %s\n%s", value, decoded, doc)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	value := sampleValues()["record"]

	first, err := EncodeValueTOML(value)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := EncodeValueTOML(value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDecodeHandWritten(t *testing.T) {
	t.Run("definition", func(t *testing.T) {
		doc := `
[definition.Custom]
name = "Text"
age = "Integer"
tags = { Array = "Text" }
`
		desc, err := DecodeDescriptorTOML(doc)
		require.NoError(t, err)
		assert.True(t, desc.Equal(Custom(map[string]Descriptor{
			"name": Text(),
			"age":  Integer(),
			"tags": ArrayOf(Text()),
		})))
	})

	t.Run("data", func(t *testing.T) {
		doc := `
[data.Custom]
name = { Text = "Alice" }
age = { Integer = 30 }
nickname = "Null"
`
		value, err := DecodeValueTOML(doc)
		require.NoError(t, err)
		assert.True(t, value.Equal(CustomValue(map[string]Value{
			"name":     TextValue("Alice"),
			"age":      IntegerValue(30),
			"nickname": Null(),
		})), value.String())
	})

	t.Run("float accepts integer literal", func(t *testing.T) {
		value, err := DecodeValueTOML("data = { Float = 3 }")
		require.NoError(t, err)
		assert.True(t, value.Equal(FloatValue(3)))
	})
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"unknown primitive":    `definition = "Decimal"`,
		"null is not a type":   `definition = "Null"`,
		"two tags":             `definition = { Array = "Text", Custom = {} }`,
		"missing key":          `other = "Text"`,
		"extra key":            "definition = \"Text\"\nextra = 1",
		"custom needs a table": `definition = { Custom = "Text" }`,
		"not toml":             `definition = `,
	}
	for name, doc := range tests {
		t.Run("definition/"+name, func(t *testing.T) {
			_, err := DecodeDescriptorTOML(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), err.Error())
		})
	}

	values := map[string]string{
		"bare string":      `data = "Alice"`,
		"integer as text":  `data = { Integer = "30" }`,
		"text as integer":  `data = { Text = 30 }`,
		"float as integer": `data = { Integer = 1.5 }`,
		"array not list":   `data = { Array = { Integer = 1 } }`,
		"unknown tag":      `data = { Decimal = 1 }`,
	}
	for name, doc := range values {
		t.Run("data/"+name, func(t *testing.T) {
			_, err := DecodeValueTOML(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), err.Error())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Null().Equal(Value{}))
	assert.False(t, IntegerValue(1).Equal(NounReferenceValue(1)))
	assert.False(t, TextValue("a").Equal(LongTextValue("a")))
	assert.False(t, ArrayValue(IntegerValue(1)).Equal(ArrayValue(IntegerValue(1), IntegerValue(2))))
	assert.False(t, CustomValue(map[string]Value{"a": Null()}).Equal(CustomValue(map[string]Value{"b": Null()})))

	assert.False(t, Integer().Equal(Float()))
	assert.False(t, ArrayOf(Integer()).Equal(ArrayOf(Float())))
	assert.False(t, Custom(map[string]Descriptor{"a": Text()}).Equal(Custom(map[string]Descriptor{"a": Text(), "b": Text()})))
}

func TestString(t *testing.T) {
	desc := Custom(map[string]Descriptor{"b": ArrayOf(Integer()), "a": Text()})
	assert.Equal(t, "Custom{a: Text, b: Array(Integer)}", desc.String())

	value := CustomValue(map[string]Value{"age": IntegerValue(30), "name": Null()})
	assert.Equal(t, "Custom{age: Integer(30), name: Null}", value.String())
}
