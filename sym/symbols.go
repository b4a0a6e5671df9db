// Package sym defines the glyphs clwm prints next to each kind of record and
// system marker. The same glyph names an entity kind in command help, tables and
// log fields.
package sym

// Entity glyphs.
const (
	Noun          = "◉" // noun: a modeled thing
	NounType      = "◎" // noun type: category of nouns
	DataType      = "⬡" // data type: versioned shape of values
	AttributeType = "◇" // attribute type: kind of attribute
	Attribute     = "◆" // attribute: a validated value on a parent
	History       = "↺" // history: diff of one change
)

// System glyphs.
const (
	World   = "⊕" // world descriptor file
	AM      = "≡" // am: configuration and system settings
	DB      = "⊔" // database/storage layer
	Success = "✓"
	Failure = "✗"
)

// entry binds a glyph to the command noun that manages it.
type entry struct {
	glyph       string
	command     string
	description string
}

var registry = []entry{
	{Noun, "noun", "Nouns: named things of a noun type"},
	{NounType, "noun-type", "Noun types: categories of nouns"},
	{DataType, "data-type", "Data types: versioned value shapes"},
	{AttributeType, "attribute-type", "Attribute types: kinds of attributes"},
	{Attribute, "attribute", "Attributes: values attached to nouns or attributes"},
}

// commandToGlyph is built from the registry at init time.
var commandToGlyph map[string]string

func init() {
	commandToGlyph = make(map[string]string, len(registry))
	for _, e := range registry {
		commandToGlyph[e.command] = e.glyph
	}
}

// ForCommand returns the glyph for an entity command noun, or "" if unknown.
func ForCommand(command string) string {
	return commandToGlyph[command]
}

// Description returns the help line for an entity command noun.
func Description(command string) string {
	for _, e := range registry {
		if e.command == command {
			return e.description
		}
	}
	return ""
}

// EntityCommands lists the entity command nouns in display order.
func EntityCommands() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.command)
	}
	return out
}
