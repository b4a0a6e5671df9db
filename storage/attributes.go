package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/world"
)

const attributeTypeColumns = `id, last_changed, attribute_name, data_type, multiple_allowed, metadata FROM attribute_type`

func scanAttributeType(row scanner) (world.AttributeType, error) {
	var (
		at      world.AttributeType
		id      int64
		changed string
	)
	if err := row.Scan(&id, &changed, &at.AttributeName, &at.DataType, &at.MultipleAllowed, &at.Metadata); err != nil {
		return world.AttributeType{}, err
	}
	ts, err := parseTime(changed)
	if err != nil {
		return world.AttributeType{}, err
	}
	at.ID, at.LastChanged = &id, ts
	return at, nil
}

func (t *sqlTx) NewAttributeType(ctx context.Context, at world.AttributeType) (world.AttributeType, error) {
	id, err := t.insert(ctx, "insert attribute type",
		`INSERT INTO attribute_type (last_changed, attribute_name, data_type, multiple_allowed, metadata)
		 VALUES (?, ?, ?, ?, ?)`,
		formatTime(t.now()), at.AttributeName, at.DataType, at.MultipleAllowed, at.Metadata)
	if err != nil {
		return world.AttributeType{}, err
	}
	return t.reloadAttributeType(ctx, id)
}

func (t *sqlTx) UpdateAttributeType(ctx context.Context, at world.AttributeType) (world.AttributeType, error) {
	if at.ID == nil {
		return world.AttributeType{}, world.ErrAttributeTypeHasNoID
	}
	ok, err := t.update(ctx, "update attribute type",
		`UPDATE attribute_type SET last_changed = ?, attribute_name = ?, data_type = ?, multiple_allowed = ?, metadata = ?
		 WHERE id = ?`,
		formatTime(t.now()), at.AttributeName, at.DataType, at.MultipleAllowed, at.Metadata, *at.ID)
	if err != nil {
		return world.AttributeType{}, err
	}
	if !ok {
		return world.AttributeType{}, world.ErrAttributeTypeNotFound
	}
	return t.reloadAttributeType(ctx, *at.ID)
}

func (t *sqlTx) reloadAttributeType(ctx context.Context, id int64) (world.AttributeType, error) {
	at, err := t.FindAttributeTypeByID(ctx, id)
	if err != nil {
		return world.AttributeType{}, err
	}
	if at == nil {
		return world.AttributeType{}, world.ErrAttributeTypeNotFound
	}
	return *at, nil
}

func (t *sqlTx) NewAttributeTypeHistory(ctx context.Context, h world.AttributeTypeHistory) (world.AttributeTypeHistory, error) {
	changed := t.now()
	id, err := t.insert(ctx, "insert attribute type history",
		`INSERT INTO attribute_type_history
		 (attribute_type_id, change_set_id, change_date, diff_attribute_name, diff_data_type, diff_multiple_allowed, diff_metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.AttributeTypeID, h.ChangeSetID, formatTime(changed),
		h.DiffAttributeName, h.DiffDataType, h.DiffMultipleAllowed, h.DiffMetadata)
	if err != nil {
		return world.AttributeTypeHistory{}, err
	}
	h.ID, h.ChangeDate = &id, &changed
	return h, nil
}

func (t *sqlTx) FindAttributeTypeByID(ctx context.Context, id int64) (*world.AttributeType, error) {
	return queryOne(ctx, t, "find attribute type by id",
		`SELECT `+attributeTypeColumns+` WHERE id = ?`, scanAttributeType, id)
}

func (t *sqlTx) FindAttributeTypeByAll(ctx context.Context) ([]world.AttributeType, error) {
	return queryAll(ctx, t, "find attribute types",
		`SELECT `+attributeTypeColumns+` ORDER BY attribute_name`, scanAttributeType)
}

func (t *sqlTx) FindAttributeTypeByName(ctx context.Context, name string) ([]world.AttributeType, error) {
	return queryAll(ctx, t, "find attribute types by name",
		`SELECT `+attributeTypeColumns+` WHERE attribute_name = ?`, scanAttributeType, name)
}

func (t *sqlTx) FindAttributeTypeByDataType(ctx context.Context, dataType string) ([]world.AttributeType, error) {
	return queryAll(ctx, t, "find attribute types by data type",
		`SELECT `+attributeTypeColumns+` WHERE data_type = ? ORDER BY attribute_name`, scanAttributeType, dataType)
}

const attributeColumns = `id, last_changed, attribute_type_id, parent_noun_id, parent_attribute_id,
	data, data_type_version, metadata FROM attribute`

func scanAttribute(row scanner) (world.Attribute, error) {
	var (
		a                    world.Attribute
		id                   int64
		changed, data        string
		parentNoun, parentAt sql.NullInt64
	)
	if err := row.Scan(&id, &changed, &a.AttributeTypeID, &parentNoun, &parentAt,
		&data, &a.DataTypeVersion, &a.Metadata); err != nil {
		return world.Attribute{}, err
	}
	if err := json.Unmarshal([]byte(data), &a.Data); err != nil {
		return world.Attribute{}, errors.Wrapf(err, "decode data of attribute %d", id)
	}
	ts, err := parseTime(changed)
	if err != nil {
		return world.Attribute{}, err
	}
	a.ID, a.LastChanged = &id, ts
	a.ParentNounID, a.ParentAttributeID = idPtr(parentNoun), idPtr(parentAt)
	return a, nil
}

func (t *sqlTx) NewAttribute(ctx context.Context, a world.Attribute) (world.Attribute, error) {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return world.Attribute{}, world.StorageError(err, "encode attribute data")
	}
	id, err := t.insert(ctx, "insert attribute",
		`INSERT INTO attribute
		 (last_changed, attribute_type_id, parent_noun_id, parent_attribute_id, data, data_type_version, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTime(t.now()), a.AttributeTypeID, nullableID(a.ParentNounID), nullableID(a.ParentAttributeID),
		string(data), a.DataTypeVersion, a.Metadata)
	if err != nil {
		return world.Attribute{}, err
	}
	return t.reloadAttribute(ctx, id)
}

// UpdateAttribute writes the mutable fields only; type and parents stay as stored.
func (t *sqlTx) UpdateAttribute(ctx context.Context, a world.Attribute) (world.Attribute, error) {
	if a.ID == nil {
		return world.Attribute{}, world.ErrAttributeHasNoID
	}
	data, err := json.Marshal(a.Data)
	if err != nil {
		return world.Attribute{}, world.StorageError(err, "encode attribute data")
	}
	ok, err := t.update(ctx, "update attribute",
		`UPDATE attribute SET last_changed = ?, data = ?, data_type_version = ?, metadata = ? WHERE id = ?`,
		formatTime(t.now()), string(data), a.DataTypeVersion, a.Metadata, *a.ID)
	if err != nil {
		return world.Attribute{}, err
	}
	if !ok {
		return world.Attribute{}, world.ErrAttributeNotFound
	}
	return t.reloadAttribute(ctx, *a.ID)
}

func (t *sqlTx) reloadAttribute(ctx context.Context, id int64) (world.Attribute, error) {
	a, err := t.FindAttributeByID(ctx, id)
	if err != nil {
		return world.Attribute{}, err
	}
	if a == nil {
		return world.Attribute{}, world.ErrAttributeNotFound
	}
	return *a, nil
}

func (t *sqlTx) NewAttributeHistory(ctx context.Context, h world.AttributeHistory) (world.AttributeHistory, error) {
	changed := t.now()
	id, err := t.insert(ctx, "insert attribute history",
		`INSERT INTO attribute_history
		 (attribute_id, change_set_id, change_date, diff_data, diff_data_type_version, diff_metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		h.AttributeID, h.ChangeSetID, formatTime(changed), h.DiffData, h.DiffDataTypeVersion, h.DiffMetadata)
	if err != nil {
		return world.AttributeHistory{}, err
	}
	h.ID, h.ChangeDate = &id, &changed
	return h, nil
}

func (t *sqlTx) FindAttributeByID(ctx context.Context, id int64) (*world.Attribute, error) {
	return queryOne(ctx, t, "find attribute by id", `SELECT `+attributeColumns+` WHERE id = ?`, scanAttribute, id)
}

func (t *sqlTx) FindAttributeByAll(ctx context.Context) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes", `SELECT `+attributeColumns+` ORDER BY id`, scanAttribute)
}

func (t *sqlTx) FindAttributeByAttributeTypeID(ctx context.Context, attributeTypeID int64) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes by type",
		`SELECT `+attributeColumns+` WHERE attribute_type_id = ? ORDER BY id`, scanAttribute, attributeTypeID)
}

func (t *sqlTx) FindAttributeByParentNounID(ctx context.Context, parentNounID int64) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes by parent noun",
		`SELECT `+attributeColumns+` WHERE parent_noun_id = ? ORDER BY id`, scanAttribute, parentNounID)
}

func (t *sqlTx) FindAttributeByParentAttributeID(ctx context.Context, parentAttributeID int64) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes by parent attribute",
		`SELECT `+attributeColumns+` WHERE parent_attribute_id = ? ORDER BY id`, scanAttribute, parentAttributeID)
}

func (t *sqlTx) FindAttributeByParentNounIDAndAttributeTypeID(ctx context.Context, parentNounID, attributeTypeID int64) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes by parent noun and type",
		`SELECT `+attributeColumns+` WHERE parent_noun_id = ? AND attribute_type_id = ? ORDER BY id`,
		scanAttribute, parentNounID, attributeTypeID)
}

func (t *sqlTx) FindAttributeByParentAttributeIDAndAttributeTypeID(ctx context.Context, parentAttributeID, attributeTypeID int64) ([]world.Attribute, error) {
	return queryAll(ctx, t, "find attributes by parent attribute and type",
		`SELECT `+attributeColumns+` WHERE parent_attribute_id = ? AND attribute_type_id = ? ORDER BY id`,
		scanAttribute, parentAttributeID, attributeTypeID)
}
