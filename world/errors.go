package world

import (
	"github.com/teranos/clwm/errors"
)

// Domain errors. Each integrity check failure has its own kind so callers can
// discriminate with errors.Is. Kinds that name an entity are produced by the
// constructors below, which keep the sentinel identity via errors.Mark.
var (
	ErrNounNotFound                      = errors.New("the provided noun could not be found")
	ErrNounTypeNotFound                  = errors.New("the provided noun type could not be found")
	ErrNounTypeAlreadyExists             = errors.New("the noun type already exists")
	ErrNounHasNoID                       = errors.New("the provided noun has no id")
	ErrNounTypeHasNoID                   = errors.New("the provided noun type has no id")
	ErrDataTypeAlreadyExists             = errors.New("the data type already exists")
	ErrDataTypeNotFound                  = errors.New("the provided data type could not be found")
	ErrAttributeTypeAlreadyExists        = errors.New("the attribute type already exists")
	ErrAttributeTypeHasNoID              = errors.New("the provided attribute type has no id")
	ErrAttributeTypeNotFound             = errors.New("the provided attribute type could not be found")
	ErrParentMustBeSet                   = errors.New("the parent noun id or parent attribute id must be set")
	ErrParentMustNotBeBothSet            = errors.New("the parent noun id and parent attribute id must not both be set")
	ErrAttributeNotFound                 = errors.New("the provided attribute could not be found")
	ErrAttributeTypeDoesNotAllowMultiple = errors.New("the attribute type does not allow multiple attributes")
	ErrAttributeHasNoID                  = errors.New("the provided attribute has no id")
	ErrDataTypeVersionNotFound           = errors.New("the provided data type version could not be found")
	ErrDataDoesNotMatchDefinition        = errors.New("the provided data does not match the data type definition")
	ErrAttributeTypeIDImmutable          = errors.New("the provided attribute type id does not match the attribute type id of the attribute")
	ErrParentNounIDImmutable             = errors.New("the provided parent noun id does not match the parent noun id of the attribute")
	ErrParentAttributeIDImmutable        = errors.New("the provided parent attribute id does not match the parent attribute id of the attribute")

	ErrNameRequired          = errors.New("a name must be provided")
	ErrInvalidDefinition     = errors.New("the provided data type definition is not a valid type")
	ErrDataTypeSystemDefined = errors.New("system defined data types cannot be updated")
)

var domainErrors = []error{
	ErrNounNotFound,
	ErrNounTypeNotFound,
	ErrNounTypeAlreadyExists,
	ErrNounHasNoID,
	ErrNounTypeHasNoID,
	ErrDataTypeAlreadyExists,
	ErrDataTypeNotFound,
	ErrAttributeTypeAlreadyExists,
	ErrAttributeTypeHasNoID,
	ErrAttributeTypeNotFound,
	ErrParentMustBeSet,
	ErrParentMustNotBeBothSet,
	ErrAttributeNotFound,
	ErrAttributeTypeDoesNotAllowMultiple,
	ErrAttributeHasNoID,
	ErrDataTypeVersionNotFound,
	ErrDataDoesNotMatchDefinition,
	ErrAttributeTypeIDImmutable,
	ErrParentNounIDImmutable,
	ErrParentAttributeIDImmutable,
	ErrNameRequired,
	ErrInvalidDefinition,
	ErrDataTypeSystemDefined,
}

// ErrStorage marks infrastructure failures coming from a storage backend
// (connectivity, constraint violations the engine did not pre-check, ...).
var ErrStorage = errors.New("storage failure")

// ErrTransactionFinalized is returned by any use of a transaction after it has
// been committed or rolled back.
var ErrTransactionFinalized = errors.New("transaction already finalized")

// IsDomainError reports whether err belongs to the integrity error taxonomy.
func IsDomainError(err error) bool {
	return err != nil && errors.IsAny(err, domainErrors...)
}

// StorageError wraps a backend failure with the operation that caused it and
// marks it with ErrStorage. Domain errors and finalized-transaction errors pass
// through unchanged. A nil err returns nil.
func StorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || errors.Is(err, ErrTransactionFinalized) || errors.Is(err, ErrStorage) {
		return err
	}
	return errors.Mark(errors.Wrap(err, op), ErrStorage)
}

func nounTypeAlreadyExists(name string) error {
	return errors.Mark(errors.Newf("the noun type %q already exists", name), ErrNounTypeAlreadyExists)
}

func dataTypeAlreadyExists(name string) error {
	return errors.Mark(errors.Newf("the data type %q already exists", name), ErrDataTypeAlreadyExists)
}

func attributeTypeAlreadyExists(name string) error {
	return errors.Mark(errors.Newf("the attribute type %q already exists", name), ErrAttributeTypeAlreadyExists)
}

func attributeTypeDoesNotAllowMultiple(name string) error {
	return errors.Mark(
		errors.Newf("the attribute type %q does not allow multiple attributes", name),
		ErrAttributeTypeDoesNotAllowMultiple)
}
