package storage

import (
	"context"
	"encoding/json"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/world"
)

const dataTypeColumns = `d.name, d.system_defined, d.definition, d.version, d.change_date FROM data_type d`

func scanDataType(row scanner) (world.DataType, error) {
	var (
		dt         world.DataType
		definition string
		version    int64
		changed    string
	)
	if err := row.Scan(&dt.Name, &dt.SystemDefined, &definition, &version, &changed); err != nil {
		return world.DataType{}, err
	}
	if err := json.Unmarshal([]byte(definition), &dt.Definition); err != nil {
		return world.DataType{}, errors.Wrapf(err, "decode definition of %s v%d", dt.Name, version)
	}
	ts, err := parseTime(changed)
	if err != nil {
		return world.DataType{}, err
	}
	dt.Version, dt.ChangeDate = &version, ts
	return dt, nil
}

func (t *sqlTx) NewDataType(ctx context.Context, dataType world.DataType) (world.DataType, error) {
	if dataType.Version == nil {
		return world.DataType{}, world.StorageError(errors.New("data type version must be set"), "insert data type")
	}
	definition, err := json.Marshal(dataType.Definition)
	if err != nil {
		return world.DataType{}, world.StorageError(err, "encode definition")
	}
	if _, err := t.insert(ctx, "insert data type",
		`INSERT INTO data_type (name, version, system_defined, definition, change_date) VALUES (?, ?, ?, ?, ?)`,
		dataType.Name, *dataType.Version, dataType.SystemDefined, string(definition), formatTime(t.now())); err != nil {
		return world.DataType{}, err
	}

	stored, err := t.FindDataTypeByNameAndVersion(ctx, dataType.Name, *dataType.Version)
	if err != nil {
		return world.DataType{}, err
	}
	if stored == nil {
		return world.DataType{}, world.ErrDataTypeNotFound
	}
	return *stored, nil
}

func (t *sqlTx) FindDataTypeLatestByName(ctx context.Context, name string) (*world.DataType, error) {
	return queryOne(ctx, t, "find latest data type",
		`SELECT `+dataTypeColumns+` WHERE d.name = ? ORDER BY d.version DESC LIMIT 1`, scanDataType, name)
}

func (t *sqlTx) FindDataTypeByNameAndVersion(ctx context.Context, name string, version int64) (*world.DataType, error) {
	return queryOne(ctx, t, "find data type version",
		`SELECT `+dataTypeColumns+` WHERE d.name = ? AND d.version = ?`, scanDataType, name, version)
}

func (t *sqlTx) FindDataTypeAllByName(ctx context.Context, name string) ([]world.DataType, error) {
	return queryAll(ctx, t, "find data type versions",
		`SELECT `+dataTypeColumns+` WHERE d.name = ? ORDER BY d.version`, scanDataType, name)
}

func (t *sqlTx) FindDataTypeAllByAll(ctx context.Context) ([]world.DataType, error) {
	return queryAll(ctx, t, "find data types",
		`SELECT `+dataTypeColumns+` ORDER BY d.name, d.version`, scanDataType)
}

func (t *sqlTx) FindDataTypeLatestByAll(ctx context.Context) ([]world.DataType, error) {
	return queryAll(ctx, t, "find latest data types",
		`SELECT `+dataTypeColumns+`
		 WHERE d.version = (SELECT MAX(version) FROM data_type WHERE name = d.name)
		 ORDER BY d.name`, scanDataType)
}
