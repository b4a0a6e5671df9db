package world

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/clwm/logger"
	"github.com/teranos/clwm/schema"
)

// NewDataType creates version 1 of a data type. Fails if any version of name exists.
func (e *Engine) NewDataType(ctx context.Context, name string, definition schema.Descriptor) (DataType, error) {
	return run(ctx, e, "new-data-type", func(tx Transaction, log *zap.SugaredLogger) (DataType, error) {
		if name == "" {
			return DataType{}, ErrNameRequired
		}
		if !definition.Valid() {
			return DataType{}, ErrInvalidDefinition
		}
		latest, err := tx.FindDataTypeLatestByName(ctx, name)
		if err != nil {
			return DataType{}, err
		}
		if latest != nil {
			return DataType{}, dataTypeAlreadyExists(name)
		}

		version := int64(1)
		created, err := tx.NewDataType(ctx, DataType{Name: name, Definition: definition, Version: &version})
		if err != nil {
			return DataType{}, err
		}
		log.Debugw("data type created", logger.FieldName, name, logger.FieldVersion, version)
		return created, nil
	})
}

// UpdateDataType appends the next version of name with a new definition. Earlier
// versions are left untouched so attributes pinned to them stay valid.
func (e *Engine) UpdateDataType(ctx context.Context, name string, definition schema.Descriptor) (DataType, error) {
	return run(ctx, e, "update-data-type", func(tx Transaction, log *zap.SugaredLogger) (DataType, error) {
		if !definition.Valid() {
			return DataType{}, ErrInvalidDefinition
		}
		latest, err := tx.FindDataTypeLatestByName(ctx, name)
		if err != nil {
			return DataType{}, err
		}
		if latest == nil {
			return DataType{}, ErrDataTypeNotFound
		}
		if latest.SystemDefined {
			return DataType{}, ErrDataTypeSystemDefined
		}

		version := int64(1)
		if latest.Version != nil {
			version = *latest.Version + 1
		}
		created, err := tx.NewDataType(ctx, DataType{Name: name, Definition: definition, Version: &version})
		if err != nil {
			return DataType{}, err
		}
		log.Debugw("data type versioned", logger.FieldName, name, logger.FieldVersion, version)
		return created, nil
	})
}
