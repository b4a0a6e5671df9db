package world

import (
	"context"

	"go.uber.org/zap"
)

// NewNounType creates a noun type. The type name must not be in use.
func (e *Engine) NewNounType(ctx context.Context, typeName, metadata string) (NounType, error) {
	return run(ctx, e, "new-noun-type", func(tx Transaction, log *zap.SugaredLogger) (NounType, error) {
		if typeName == "" {
			return NounType{}, ErrNameRequired
		}
		existing, err := tx.FindNounTypeByTypeName(ctx, typeName)
		if err != nil {
			return NounType{}, err
		}
		if len(existing) > 0 {
			return NounType{}, nounTypeAlreadyExists(typeName)
		}

		created, err := tx.NewNounType(ctx, NounType{TypeName: typeName, Metadata: metadata})
		if err != nil {
			return NounType{}, err
		}
		if err := recordNounType(ctx, tx, log, NounType{}, created); err != nil {
			return NounType{}, err
		}
		return created, nil
	})
}

// UpdateNounType replaces the type name and metadata of an existing noun type.
// Nouns follow a rename since they reference their type by row.
func (e *Engine) UpdateNounType(ctx context.Context, nounType NounType) (NounType, error) {
	return run(ctx, e, "update-noun-type", func(tx Transaction, log *zap.SugaredLogger) (NounType, error) {
		if nounType.ID == nil {
			return NounType{}, ErrNounTypeHasNoID
		}
		old, err := tx.FindNounTypeByID(ctx, *nounType.ID)
		if err != nil {
			return NounType{}, err
		}
		if old == nil {
			return NounType{}, ErrNounTypeNotFound
		}
		if nounType.TypeName == "" {
			return NounType{}, ErrNameRequired
		}
		if nounType.TypeName != old.TypeName {
			clash, err := tx.FindNounTypeByTypeName(ctx, nounType.TypeName)
			if err != nil {
				return NounType{}, err
			}
			if len(clash) > 0 {
				return NounType{}, nounTypeAlreadyExists(nounType.TypeName)
			}
		}

		updated, err := tx.UpdateNounType(ctx, nounType)
		if err != nil {
			return NounType{}, err
		}
		if err := recordNounType(ctx, tx, log, *old, updated); err != nil {
			return NounType{}, err
		}
		return updated, nil
	})
}

func recordNounType(ctx context.Context, tx Transaction, log *zap.SugaredLogger, old, cur NounType) error {
	h := NounTypeHistory{NounTypeID: *cur.ID, ChangeSetID: tx.ChangeSetID()}
	added, deleted, err := computeDiffs(
		fieldDiff{field: "type_name", from: old.TypeName, to: cur.TypeName, patch: &h.DiffTypeName},
		fieldDiff{field: "metadata", from: old.Metadata, to: cur.Metadata, patch: &h.DiffMetadata},
	)
	if err != nil {
		return err
	}
	if _, err := tx.NewNounTypeHistory(ctx, h); err != nil {
		return err
	}
	logHistory(log, "noun_type", *cur.ID, added, deleted)
	return nil
}

// NewNoun creates a noun of an existing noun type. Names need not be unique.
func (e *Engine) NewNoun(ctx context.Context, name, nounType, metadata string) (Noun, error) {
	return run(ctx, e, "new-noun", func(tx Transaction, log *zap.SugaredLogger) (Noun, error) {
		if name == "" {
			return Noun{}, ErrNameRequired
		}
		if err := requireNounType(ctx, tx, nounType); err != nil {
			return Noun{}, err
		}

		created, err := tx.NewNoun(ctx, Noun{Name: name, NounType: nounType, Metadata: metadata})
		if err != nil {
			return Noun{}, err
		}
		if err := recordNoun(ctx, tx, log, Noun{}, created); err != nil {
			return Noun{}, err
		}
		return created, nil
	})
}

// UpdateNoun replaces the name, noun type and metadata of an existing noun.
func (e *Engine) UpdateNoun(ctx context.Context, noun Noun) (Noun, error) {
	return run(ctx, e, "update-noun", func(tx Transaction, log *zap.SugaredLogger) (Noun, error) {
		if noun.ID == nil {
			return Noun{}, ErrNounHasNoID
		}
		old, err := tx.FindNounByID(ctx, *noun.ID)
		if err != nil {
			return Noun{}, err
		}
		if old == nil {
			return Noun{}, ErrNounNotFound
		}
		if noun.Name == "" {
			return Noun{}, ErrNameRequired
		}
		if err := requireNounType(ctx, tx, noun.NounType); err != nil {
			return Noun{}, err
		}

		noun.Attributes = nil
		updated, err := tx.UpdateNoun(ctx, noun)
		if err != nil {
			return Noun{}, err
		}
		if err := recordNoun(ctx, tx, log, *old, updated); err != nil {
			return Noun{}, err
		}
		return updated, nil
	})
}

func requireNounType(ctx context.Context, tx Transaction, typeName string) error {
	found, err := tx.FindNounTypeByTypeName(ctx, typeName)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return ErrNounTypeNotFound
	}
	return nil
}

func recordNoun(ctx context.Context, tx Transaction, log *zap.SugaredLogger, old, cur Noun) error {
	h := NounHistory{NounID: *cur.ID, ChangeSetID: tx.ChangeSetID()}
	added, deleted, err := computeDiffs(
		fieldDiff{field: "name", from: old.Name, to: cur.Name, patch: &h.DiffName},
		fieldDiff{field: "noun_type", from: old.NounType, to: cur.NounType, patch: &h.DiffNounType},
		fieldDiff{field: "metadata", from: old.Metadata, to: cur.Metadata, patch: &h.DiffMetadata},
	)
	if err != nil {
		return err
	}
	if _, err := tx.NewNounHistory(ctx, h); err != nil {
		return err
	}
	logHistory(log, "noun", *cur.ID, added, deleted)
	return nil
}
