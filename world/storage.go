package world

import "context"

// Storage is the capability a backend provides to the engine. The engine never
// inspects which backend it is talking to.
type Storage interface {
	// Init establishes connectivity and prepares the schema. Call once at startup.
	Init(ctx context.Context) error

	// CreateTransaction opens an atomic unit of work tagged with a human-readable
	// change source. The returned transaction carries a backend-assigned change-set
	// id that groups the history rows written through it.
	CreateTransaction(ctx context.Context, changeSource string) (Transaction, error)

	Close() error
}

// Transaction is one atomic unit of work. It is consumed exactly once by Commit
// or Rollback; any later call returns ErrTransactionFinalized. Implementations
// must be safe for concurrent use, serializing calls so only one query is in
// flight at a time.
//
// Writes return the canonical stored record, with backend-assigned ids and
// timestamps. Finders report absence through their return value (nil or an empty
// slice), never through an error.
type Transaction interface {
	ChangeSetID() int64
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	NewNoun(ctx context.Context, noun Noun) (Noun, error)
	UpdateNoun(ctx context.Context, noun Noun) (Noun, error)
	NewNounHistory(ctx context.Context, history NounHistory) (NounHistory, error)
	FindNounByID(ctx context.Context, id int64) (*Noun, error)
	FindNounByAll(ctx context.Context) ([]Noun, error)
	// FindNounByName matches nouns whose name contains name.
	FindNounByName(ctx context.Context, name string) ([]Noun, error)
	FindNounByType(ctx context.Context, nounType string) ([]Noun, error)

	NewNounType(ctx context.Context, nounType NounType) (NounType, error)
	UpdateNounType(ctx context.Context, nounType NounType) (NounType, error)
	NewNounTypeHistory(ctx context.Context, history NounTypeHistory) (NounTypeHistory, error)
	FindNounTypeByID(ctx context.Context, id int64) (*NounType, error)
	FindNounTypeByAll(ctx context.Context) ([]NounType, error)
	// FindNounTypeByTypeName matches the type name exactly.
	FindNounTypeByTypeName(ctx context.Context, typeName string) ([]NounType, error)

	NewDataType(ctx context.Context, dataType DataType) (DataType, error)
	FindDataTypeLatestByName(ctx context.Context, name string) (*DataType, error)
	FindDataTypeByNameAndVersion(ctx context.Context, name string, version int64) (*DataType, error)
	// FindDataTypeAllByName returns every version of name, oldest first.
	FindDataTypeAllByName(ctx context.Context, name string) ([]DataType, error)
	FindDataTypeAllByAll(ctx context.Context) ([]DataType, error)
	FindDataTypeLatestByAll(ctx context.Context) ([]DataType, error)

	NewAttributeType(ctx context.Context, attributeType AttributeType) (AttributeType, error)
	UpdateAttributeType(ctx context.Context, attributeType AttributeType) (AttributeType, error)
	NewAttributeTypeHistory(ctx context.Context, history AttributeTypeHistory) (AttributeTypeHistory, error)
	FindAttributeTypeByID(ctx context.Context, id int64) (*AttributeType, error)
	FindAttributeTypeByAll(ctx context.Context) ([]AttributeType, error)
	FindAttributeTypeByName(ctx context.Context, name string) ([]AttributeType, error)
	FindAttributeTypeByDataType(ctx context.Context, dataType string) ([]AttributeType, error)

	NewAttribute(ctx context.Context, attribute Attribute) (Attribute, error)
	UpdateAttribute(ctx context.Context, attribute Attribute) (Attribute, error)
	NewAttributeHistory(ctx context.Context, history AttributeHistory) (AttributeHistory, error)
	FindAttributeByID(ctx context.Context, id int64) (*Attribute, error)
	FindAttributeByAll(ctx context.Context) ([]Attribute, error)
	FindAttributeByAttributeTypeID(ctx context.Context, attributeTypeID int64) ([]Attribute, error)
	FindAttributeByParentNounID(ctx context.Context, parentNounID int64) ([]Attribute, error)
	FindAttributeByParentAttributeID(ctx context.Context, parentAttributeID int64) ([]Attribute, error)
	FindAttributeByParentNounIDAndAttributeTypeID(ctx context.Context, parentNounID, attributeTypeID int64) ([]Attribute, error)
	FindAttributeByParentAttributeIDAndAttributeTypeID(ctx context.Context, parentAttributeID, attributeTypeID int64) ([]Attribute, error)
}
