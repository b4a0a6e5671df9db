package world

import (
	"context"

	"go.uber.org/zap"
)

// NewAttributeType declares an attribute type over the named data type. The data
// type must have a latest version; attributes pick their own version.
func (e *Engine) NewAttributeType(ctx context.Context, name string, multipleAllowed bool, dataType, metadata string) (AttributeType, error) {
	return run(ctx, e, "new-attribute-type", func(tx Transaction, log *zap.SugaredLogger) (AttributeType, error) {
		if name == "" {
			return AttributeType{}, ErrNameRequired
		}
		existing, err := tx.FindAttributeTypeByName(ctx, name)
		if err != nil {
			return AttributeType{}, err
		}
		if len(existing) > 0 {
			return AttributeType{}, attributeTypeAlreadyExists(name)
		}
		latest, err := tx.FindDataTypeLatestByName(ctx, dataType)
		if err != nil {
			return AttributeType{}, err
		}
		if latest == nil {
			return AttributeType{}, ErrDataTypeNotFound
		}

		created, err := tx.NewAttributeType(ctx, AttributeType{
			AttributeName:   name,
			DataType:        dataType,
			MultipleAllowed: multipleAllowed,
			Metadata:        metadata,
		})
		if err != nil {
			return AttributeType{}, err
		}
		if err := recordAttributeType(ctx, tx, log, nil, created); err != nil {
			return AttributeType{}, err
		}
		return created, nil
	})
}

// UpdateAttributeType changes the name, multiple_allowed flag and metadata of an
// attribute type. The data type is fixed at creation; the value passed is ignored.
func (e *Engine) UpdateAttributeType(ctx context.Context, attributeType AttributeType) (AttributeType, error) {
	return run(ctx, e, "update-attribute-type", func(tx Transaction, log *zap.SugaredLogger) (AttributeType, error) {
		if attributeType.ID == nil {
			return AttributeType{}, ErrAttributeTypeHasNoID
		}
		old, err := tx.FindAttributeTypeByID(ctx, *attributeType.ID)
		if err != nil {
			return AttributeType{}, err
		}
		if old == nil {
			return AttributeType{}, ErrAttributeTypeNotFound
		}
		if attributeType.AttributeName == "" {
			return AttributeType{}, ErrNameRequired
		}
		if attributeType.AttributeName != old.AttributeName {
			clash, err := tx.FindAttributeTypeByName(ctx, attributeType.AttributeName)
			if err != nil {
				return AttributeType{}, err
			}
			if len(clash) > 0 {
				return AttributeType{}, attributeTypeAlreadyExists(attributeType.AttributeName)
			}
		}

		attributeType.DataType = old.DataType
		updated, err := tx.UpdateAttributeType(ctx, attributeType)
		if err != nil {
			return AttributeType{}, err
		}
		if err := recordAttributeType(ctx, tx, log, old, updated); err != nil {
			return AttributeType{}, err
		}
		return updated, nil
	})
}

// recordAttributeType writes the history row. A nil old diffs against empty
// fields, including an empty multiple_allowed.
func recordAttributeType(ctx context.Context, tx Transaction, log *zap.SugaredLogger, old *AttributeType, cur AttributeType) error {
	var prev AttributeType
	prevMultiple := ""
	if old != nil {
		prev = *old
		prevMultiple = boolText(old.MultipleAllowed)
	}

	h := AttributeTypeHistory{AttributeTypeID: *cur.ID, ChangeSetID: tx.ChangeSetID()}
	added, deleted, err := computeDiffs(
		fieldDiff{field: "attribute_name", from: prev.AttributeName, to: cur.AttributeName, patch: &h.DiffAttributeName},
		fieldDiff{field: "data_type", from: prev.DataType, to: cur.DataType, patch: &h.DiffDataType},
		fieldDiff{field: "multiple_allowed", from: prevMultiple, to: boolText(cur.MultipleAllowed), patch: &h.DiffMultipleAllowed},
		fieldDiff{field: "metadata", from: prev.Metadata, to: cur.Metadata, patch: &h.DiffMetadata},
	)
	if err != nil {
		return err
	}
	if _, err := tx.NewAttributeTypeHistory(ctx, h); err != nil {
		return err
	}
	logHistory(log, "attribute_type", *cur.ID, added, deleted)
	return nil
}
