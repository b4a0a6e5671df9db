package world

import (
	"context"
	"strings"
)

// NounFilter narrows FindNouns. Empty fields match everything; Name matches as a
// substring, NounType exactly.
type NounFilter struct {
	Name     string
	NounType string
}

// AttributeTypeFilter narrows FindAttributeTypes. Both fields match exactly.
type AttributeTypeFilter struct {
	Name     string
	DataType string
}

// AttributeFilter narrows FindAttributes. At most one parent may be set.
type AttributeFilter struct {
	ParentNounID      *int64
	ParentAttributeID *int64
	AttributeTypeID   *int64
	DataTypeVersion   *int64
}

// GetNoun returns the noun with id, without its attributes.
func (e *Engine) GetNoun(ctx context.Context, id int64) (Noun, error) {
	return read(ctx, e, "get-noun", func(tx Transaction) (Noun, error) {
		noun, err := tx.FindNounByID(ctx, id)
		if err != nil {
			return Noun{}, err
		}
		if noun == nil {
			return Noun{}, ErrNounNotFound
		}
		return *noun, nil
	})
}

// FindNouns lists nouns matching every set field of filter.
func (e *Engine) FindNouns(ctx context.Context, filter NounFilter) ([]Noun, error) {
	return read(ctx, e, "find-nouns", func(tx Transaction) ([]Noun, error) {
		switch {
		case filter.NounType != "":
			nouns, err := tx.FindNounByType(ctx, filter.NounType)
			if err != nil {
				return nil, err
			}
			return filterSlice(nouns, func(n Noun) bool {
				return strings.Contains(n.Name, filter.Name)
			}), nil
		case filter.Name != "":
			return tx.FindNounByName(ctx, filter.Name)
		default:
			return tx.FindNounByAll(ctx)
		}
	})
}

// GetNounType returns the noun type with id.
func (e *Engine) GetNounType(ctx context.Context, id int64) (NounType, error) {
	return read(ctx, e, "get-noun-type", func(tx Transaction) (NounType, error) {
		nounType, err := tx.FindNounTypeByID(ctx, id)
		if err != nil {
			return NounType{}, err
		}
		if nounType == nil {
			return NounType{}, ErrNounTypeNotFound
		}
		return *nounType, nil
	})
}

// FindNounTypes lists noun types whose name contains typeName.
func (e *Engine) FindNounTypes(ctx context.Context, typeName string) ([]NounType, error) {
	return read(ctx, e, "find-noun-types", func(tx Transaction) ([]NounType, error) {
		all, err := tx.FindNounTypeByAll(ctx)
		if err != nil {
			return nil, err
		}
		return filterSlice(all, func(nt NounType) bool {
			return strings.Contains(nt.TypeName, typeName)
		}), nil
	})
}

// GetLatestDataType returns the highest version of name.
func (e *Engine) GetLatestDataType(ctx context.Context, name string) (DataType, error) {
	return read(ctx, e, "get-data-type", func(tx Transaction) (DataType, error) {
		dataType, err := tx.FindDataTypeLatestByName(ctx, name)
		if err != nil {
			return DataType{}, err
		}
		if dataType == nil {
			return DataType{}, ErrDataTypeNotFound
		}
		return *dataType, nil
	})
}

// GetDataTypeVersion distinguishes an unknown name from an unknown version.
func (e *Engine) GetDataTypeVersion(ctx context.Context, name string, version int64) (DataType, error) {
	return read(ctx, e, "get-data-type-version", func(tx Transaction) (DataType, error) {
		dataType, err := tx.FindDataTypeByNameAndVersion(ctx, name, version)
		if err != nil {
			return DataType{}, err
		}
		if dataType != nil {
			return *dataType, nil
		}
		latest, err := tx.FindDataTypeLatestByName(ctx, name)
		if err != nil {
			return DataType{}, err
		}
		if latest == nil {
			return DataType{}, ErrDataTypeNotFound
		}
		return DataType{}, ErrDataTypeVersionNotFound
	})
}

// FindDataTypeVersions returns every version of name, oldest first.
func (e *Engine) FindDataTypeVersions(ctx context.Context, name string) ([]DataType, error) {
	return read(ctx, e, "find-data-type-versions", func(tx Transaction) ([]DataType, error) {
		versions, err := tx.FindDataTypeAllByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, ErrDataTypeNotFound
		}
		return versions, nil
	})
}

// FindAllDataTypeVersions returns every stored version of every data type.
func (e *Engine) FindAllDataTypeVersions(ctx context.Context) ([]DataType, error) {
	return read(ctx, e, "find-data-type-history", func(tx Transaction) ([]DataType, error) {
		return tx.FindDataTypeAllByAll(ctx)
	})
}

// FindLatestDataTypes returns the latest version of every data type.
func (e *Engine) FindLatestDataTypes(ctx context.Context) ([]DataType, error) {
	return read(ctx, e, "find-data-types", func(tx Transaction) ([]DataType, error) {
		return tx.FindDataTypeLatestByAll(ctx)
	})
}

// GetAttributeType returns the attribute type with id.
func (e *Engine) GetAttributeType(ctx context.Context, id int64) (AttributeType, error) {
	return read(ctx, e, "get-attribute-type", func(tx Transaction) (AttributeType, error) {
		attributeType, err := tx.FindAttributeTypeByID(ctx, id)
		if err != nil {
			return AttributeType{}, err
		}
		if attributeType == nil {
			return AttributeType{}, ErrAttributeTypeNotFound
		}
		return *attributeType, nil
	})
}

// GetAttributeTypeByName returns the attribute type called name.
func (e *Engine) GetAttributeTypeByName(ctx context.Context, name string) (AttributeType, error) {
	return read(ctx, e, "get-attribute-type", func(tx Transaction) (AttributeType, error) {
		found, err := tx.FindAttributeTypeByName(ctx, name)
		if err != nil {
			return AttributeType{}, err
		}
		if len(found) == 0 {
			return AttributeType{}, ErrAttributeTypeNotFound
		}
		return found[0], nil
	})
}

// FindAttributeTypes lists attribute types matching every set field of filter.
func (e *Engine) FindAttributeTypes(ctx context.Context, filter AttributeTypeFilter) ([]AttributeType, error) {
	return read(ctx, e, "find-attribute-types", func(tx Transaction) ([]AttributeType, error) {
		var (
			found []AttributeType
			err   error
		)
		switch {
		case filter.Name != "":
			found, err = tx.FindAttributeTypeByName(ctx, filter.Name)
		case filter.DataType != "":
			found, err = tx.FindAttributeTypeByDataType(ctx, filter.DataType)
		default:
			found, err = tx.FindAttributeTypeByAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		return filterSlice(found, func(at AttributeType) bool {
			return filter.DataType == "" || at.DataType == filter.DataType
		}), nil
	})
}

// GetAttribute returns the attribute with id, without its children.
func (e *Engine) GetAttribute(ctx context.Context, id int64) (Attribute, error) {
	return read(ctx, e, "get-attribute", func(tx Transaction) (Attribute, error) {
		attribute, err := tx.FindAttributeByID(ctx, id)
		if err != nil {
			return Attribute{}, err
		}
		if attribute == nil {
			return Attribute{}, ErrAttributeNotFound
		}
		return *attribute, nil
	})
}

// FindAttributes lists attributes using the narrowest parent-scoped finder the
// filter allows.
func (e *Engine) FindAttributes(ctx context.Context, filter AttributeFilter) ([]Attribute, error) {
	return read(ctx, e, "find-attributes", func(tx Transaction) ([]Attribute, error) {
		var (
			found []Attribute
			err   error
		)
		typeID := filter.AttributeTypeID
		switch {
		case filter.ParentNounID != nil && filter.ParentAttributeID != nil:
			return nil, ErrParentMustNotBeBothSet
		case filter.ParentNounID != nil && typeID != nil:
			found, err = tx.FindAttributeByParentNounIDAndAttributeTypeID(ctx, *filter.ParentNounID, *typeID)
		case filter.ParentNounID != nil:
			found, err = tx.FindAttributeByParentNounID(ctx, *filter.ParentNounID)
		case filter.ParentAttributeID != nil && typeID != nil:
			found, err = tx.FindAttributeByParentAttributeIDAndAttributeTypeID(ctx, *filter.ParentAttributeID, *typeID)
		case filter.ParentAttributeID != nil:
			found, err = tx.FindAttributeByParentAttributeID(ctx, *filter.ParentAttributeID)
		case typeID != nil:
			found, err = tx.FindAttributeByAttributeTypeID(ctx, *typeID)
		default:
			found, err = tx.FindAttributeByAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		if filter.DataTypeVersion == nil {
			return found, nil
		}
		return filterSlice(found, func(a Attribute) bool {
			return a.DataTypeVersion == *filter.DataTypeVersion
		}), nil
	})
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
