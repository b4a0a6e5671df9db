package sym

import (
	"testing"
	"unicode/utf8"
)

func TestEveryCommandHasAGlyph(t *testing.T) {
	for _, cmd := range EntityCommands() {
		if ForCommand(cmd) == "" {
			t.Errorf("no glyph for command %q", cmd)
		}
	}
	if ForCommand("history") != "" {
		t.Error("unknown command should have no glyph")
	}
}

func TestDescriptionsCoverAllCommands(t *testing.T) {
	for _, cmd := range EntityCommands() {
		if Description(cmd) == "" {
			t.Errorf("command %q has no description", cmd)
		}
	}
	if Description("unknown") != "" {
		t.Error("unknown command should have no description")
	}
}

func TestGlyphsAreSingleRunes(t *testing.T) {
	for _, glyph := range []string{Noun, NounType, DataType, AttributeType, Attribute, History, World, AM, DB, Success, Failure} {
		if n := utf8.RuneCountInString(glyph); n != 1 {
			t.Errorf("glyph %q has %d runes, want 1", glyph, n)
		}
	}
}

func TestGlyphsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range EntityCommands() {
		glyph := ForCommand(cmd)
		if seen[glyph] {
			t.Errorf("glyph %q used twice", glyph)
		}
		seen[glyph] = true
	}
}
