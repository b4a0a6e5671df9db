package world

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/clwm/schema"
)

// NewAttribute attaches a validated value to exactly one parent, a noun or
// another attribute. Data may contain Null anywhere the definition allows a value.
func (e *Engine) NewAttribute(ctx context.Context, attribute Attribute) (Attribute, error) {
	return run(ctx, e, "new-attribute", func(tx Transaction, log *zap.SugaredLogger) (Attribute, error) {
		attributeType, err := tx.FindAttributeTypeByID(ctx, attribute.AttributeTypeID)
		if err != nil {
			return Attribute{}, err
		}
		if attributeType == nil {
			return Attribute{}, ErrAttributeTypeNotFound
		}

		if err := checkParent(ctx, tx, attribute, *attributeType); err != nil {
			return Attribute{}, err
		}
		if err := checkData(ctx, tx, attribute, *attributeType); err != nil {
			return Attribute{}, err
		}

		attribute.ID = nil
		attribute.Children = nil
		created, err := tx.NewAttribute(ctx, attribute)
		if err != nil {
			return Attribute{}, err
		}
		if err := recordAttribute(ctx, tx, log, nil, created); err != nil {
			return Attribute{}, err
		}
		return created, nil
	})
}

// UpdateAttribute replaces the data, data type version and metadata of an
// attribute. Its type and parent cannot change.
func (e *Engine) UpdateAttribute(ctx context.Context, attribute Attribute) (Attribute, error) {
	return run(ctx, e, "update-attribute", func(tx Transaction, log *zap.SugaredLogger) (Attribute, error) {
		if attribute.ID == nil {
			return Attribute{}, ErrAttributeHasNoID
		}
		old, err := tx.FindAttributeByID(ctx, *attribute.ID)
		if err != nil {
			return Attribute{}, err
		}
		if old == nil {
			return Attribute{}, ErrAttributeNotFound
		}

		switch {
		case attribute.AttributeTypeID != old.AttributeTypeID:
			return Attribute{}, ErrAttributeTypeIDImmutable
		case !sameID(attribute.ParentNounID, old.ParentNounID):
			return Attribute{}, ErrParentNounIDImmutable
		case !sameID(attribute.ParentAttributeID, old.ParentAttributeID):
			return Attribute{}, ErrParentAttributeIDImmutable
		}

		attributeType, err := tx.FindAttributeTypeByID(ctx, old.AttributeTypeID)
		if err != nil {
			return Attribute{}, err
		}
		if attributeType == nil {
			return Attribute{}, ErrAttributeTypeNotFound
		}
		if err := checkData(ctx, tx, attribute, *attributeType); err != nil {
			return Attribute{}, err
		}

		attribute.Children = nil
		updated, err := tx.UpdateAttribute(ctx, attribute)
		if err != nil {
			return Attribute{}, err
		}
		if err := recordAttribute(ctx, tx, log, old, updated); err != nil {
			return Attribute{}, err
		}
		return updated, nil
	})
}

// checkParent enforces parent exclusivity, that the parent exists and the
// attribute type's multiplicity under that parent.
func checkParent(ctx context.Context, tx Transaction, attribute Attribute, attributeType AttributeType) error {
	var siblings []Attribute
	switch {
	case attribute.ParentNounID != nil && attribute.ParentAttributeID != nil:
		return ErrParentMustNotBeBothSet
	case attribute.ParentNounID == nil && attribute.ParentAttributeID == nil:
		return ErrParentMustBeSet
	case attribute.ParentNounID != nil:
		parent, err := tx.FindNounByID(ctx, *attribute.ParentNounID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrNounNotFound
		}
		if attributeType.MultipleAllowed {
			return nil
		}
		siblings, err = tx.FindAttributeByParentNounIDAndAttributeTypeID(ctx, *attribute.ParentNounID, *attributeType.ID)
		if err != nil {
			return err
		}
	default:
		parent, err := tx.FindAttributeByID(ctx, *attribute.ParentAttributeID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrAttributeNotFound
		}
		if attributeType.MultipleAllowed {
			return nil
		}
		siblings, err = tx.FindAttributeByParentAttributeIDAndAttributeTypeID(ctx, *attribute.ParentAttributeID, *attributeType.ID)
		if err != nil {
			return err
		}
	}
	if len(siblings) > 0 {
		return attributeTypeDoesNotAllowMultiple(attributeType.AttributeName)
	}
	return nil
}

// checkData resolves the pinned version among every version of the attribute
// type's data type and validates the data against it, allowing nulls.
func checkData(ctx context.Context, tx Transaction, attribute Attribute, attributeType AttributeType) error {
	versions, err := tx.FindDataTypeAllByName(ctx, attributeType.DataType)
	if err != nil {
		return err
	}
	for _, dataType := range versions {
		if dataType.Version == nil || *dataType.Version != attribute.DataTypeVersion {
			continue
		}
		if !schema.Validate(attribute.Data, dataType.Definition, true) {
			return ErrDataDoesNotMatchDefinition
		}
		return nil
	}
	return ErrDataTypeVersionNotFound
}

func recordAttribute(ctx context.Context, tx Transaction, log *zap.SugaredLogger, old *Attribute, cur Attribute) error {
	prevData, prevVersion, prevMetadata := "", "", ""
	if old != nil {
		var err error
		if prevData, err = valueText(old.Data); err != nil {
			return err
		}
		prevVersion = intText(old.DataTypeVersion)
		prevMetadata = old.Metadata
	}
	curData, err := valueText(cur.Data)
	if err != nil {
		return err
	}

	h := AttributeHistory{AttributeID: *cur.ID, ChangeSetID: tx.ChangeSetID()}
	added, deleted, err := computeDiffs(
		fieldDiff{field: "data", from: prevData, to: curData, patch: &h.DiffData},
		fieldDiff{field: "data_type_version", from: prevVersion, to: intText(cur.DataTypeVersion), patch: &h.DiffDataTypeVersion},
		fieldDiff{field: "metadata", from: prevMetadata, to: cur.Metadata, patch: &h.DiffMetadata},
	)
	if err != nil {
		return err
	}
	if _, err := tx.NewAttributeHistory(ctx, h); err != nil {
		return err
	}
	logHistory(log, "attribute", *cur.ID, added, deleted)
	return nil
}
