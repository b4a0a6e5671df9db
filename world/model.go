package world

import (
	"time"

	"github.com/teranos/clwm/schema"
)

// NounType is a named category of nouns.
type NounType struct {
	ID          *int64     `json:"id,omitempty"`
	LastChanged *time.Time `json:"last_changed,omitempty"`
	TypeName    string     `json:"type_name"`
	Metadata    string     `json:"metadata"`
}

// Noun is a user-defined entity. Attributes is filled in on demand by
// Engine.PopulateNoun and is never persisted.
type Noun struct {
	ID          *int64      `json:"id,omitempty"`
	LastChanged *time.Time  `json:"last_changed,omitempty"`
	Name        string      `json:"name"`
	NounType    string      `json:"noun_type"`
	Metadata    string      `json:"metadata"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// DataType is one version of a named structural schema. Rows are append-only:
// an update inserts the next version under the same name.
type DataType struct {
	Name          string            `json:"name"`
	SystemDefined bool              `json:"system_defined"`
	Definition    schema.Descriptor `json:"definition"`
	Version       *int64            `json:"version,omitempty"`
	ChangeDate    *time.Time        `json:"change_date,omitempty"`
}

// AttributeType declares a kind of attribute, the data type its values use and
// whether one parent may hold more than one attribute of this type.
type AttributeType struct {
	ID              *int64     `json:"id,omitempty"`
	LastChanged     *time.Time `json:"last_changed,omitempty"`
	AttributeName   string     `json:"attribute_name"`
	DataType        string     `json:"data_type"`
	MultipleAllowed bool       `json:"multiple_allowed"`
	Metadata        string     `json:"metadata"`
}

// Attribute is a validated value attached to exactly one parent, either a noun or
// another attribute. DataTypeVersion pins the data type version Data was
// validated against. Children is filled in on demand and never persisted.
type Attribute struct {
	ID                *int64       `json:"id,omitempty"`
	LastChanged       *time.Time   `json:"last_changed,omitempty"`
	AttributeTypeID   int64        `json:"attribute_type_id"`
	ParentNounID      *int64       `json:"parent_noun_id,omitempty"`
	ParentAttributeID *int64       `json:"parent_attribute_id,omitempty"`
	Data              schema.Value `json:"data"`
	DataTypeVersion   int64        `json:"data_type_version"`
	Metadata          string       `json:"metadata"`
	Children          []Attribute  `json:"children,omitempty"`
}

// History rows are append-only audit records. Each Diff field holds a unified
// diff from the previous serialized value of the field to the new one; creations
// diff against the empty string.

type NounHistory struct {
	ID           *int64     `json:"id,omitempty"`
	NounID       int64      `json:"noun_id"`
	ChangeSetID  int64      `json:"change_set_id"`
	ChangeDate   *time.Time `json:"change_date,omitempty"`
	DiffName     string     `json:"diff_name"`
	DiffNounType string     `json:"diff_noun_type"`
	DiffMetadata string     `json:"diff_metadata"`
}

type NounTypeHistory struct {
	ID           *int64     `json:"id,omitempty"`
	NounTypeID   int64      `json:"noun_type_id"`
	ChangeSetID  int64      `json:"change_set_id"`
	ChangeDate   *time.Time `json:"change_date,omitempty"`
	DiffTypeName string     `json:"diff_type_name"`
	DiffMetadata string     `json:"diff_metadata"`
}

type AttributeTypeHistory struct {
	ID                  *int64     `json:"id,omitempty"`
	AttributeTypeID     int64      `json:"attribute_type_id"`
	ChangeSetID         int64      `json:"change_set_id"`
	ChangeDate          *time.Time `json:"change_date,omitempty"`
	DiffAttributeName   string     `json:"diff_attribute_name"`
	DiffDataType        string     `json:"diff_data_type"`
	DiffMultipleAllowed string     `json:"diff_multiple_allowed"`
	DiffMetadata        string     `json:"diff_metadata"`
}

type AttributeHistory struct {
	ID                  *int64     `json:"id,omitempty"`
	AttributeID         int64      `json:"attribute_id"`
	ChangeSetID         int64      `json:"change_set_id"`
	ChangeDate          *time.Time `json:"change_date,omitempty"`
	DiffData            string     `json:"diff_data"`
	DiffDataTypeVersion string     `json:"diff_data_type_version"`
	DiffMetadata        string     `json:"diff_metadata"`
}

// sameID reports whether two optional ids refer to the same row (or are both unset).
func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
