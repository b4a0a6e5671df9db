package storage

import (
	"context"

	"github.com/teranos/clwm/world"
)

const nounColumns = `n.id, n.last_changed, n.name, nt.type_name, n.metadata
	FROM noun n JOIN noun_type nt ON nt.id = n.noun_type_id`

func scanNoun(row scanner) (world.Noun, error) {
	var (
		n       world.Noun
		id      int64
		changed string
	)
	if err := row.Scan(&id, &changed, &n.Name, &n.NounType, &n.Metadata); err != nil {
		return world.Noun{}, err
	}
	ts, err := parseTime(changed)
	if err != nil {
		return world.Noun{}, err
	}
	n.ID, n.LastChanged = &id, ts
	return n, nil
}

func (t *sqlTx) NewNoun(ctx context.Context, noun world.Noun) (world.Noun, error) {
	id, err := t.insert(ctx, "insert noun",
		`INSERT INTO noun (last_changed, name, noun_type_id, metadata)
		 VALUES (?, ?, (SELECT id FROM noun_type WHERE type_name = ?), ?)`,
		formatTime(t.now()), noun.Name, noun.NounType, noun.Metadata)
	if err != nil {
		return world.Noun{}, err
	}
	return t.reloadNoun(ctx, id)
}

func (t *sqlTx) UpdateNoun(ctx context.Context, noun world.Noun) (world.Noun, error) {
	if noun.ID == nil {
		return world.Noun{}, world.ErrNounHasNoID
	}
	ok, err := t.update(ctx, "update noun",
		`UPDATE noun SET last_changed = ?, name = ?,
		 noun_type_id = (SELECT id FROM noun_type WHERE type_name = ?), metadata = ?
		 WHERE id = ?`,
		formatTime(t.now()), noun.Name, noun.NounType, noun.Metadata, *noun.ID)
	if err != nil {
		return world.Noun{}, err
	}
	if !ok {
		return world.Noun{}, world.ErrNounNotFound
	}
	return t.reloadNoun(ctx, *noun.ID)
}

func (t *sqlTx) reloadNoun(ctx context.Context, id int64) (world.Noun, error) {
	noun, err := t.FindNounByID(ctx, id)
	if err != nil {
		return world.Noun{}, err
	}
	if noun == nil {
		return world.Noun{}, world.ErrNounNotFound
	}
	return *noun, nil
}

func (t *sqlTx) NewNounHistory(ctx context.Context, h world.NounHistory) (world.NounHistory, error) {
	changed := t.now()
	id, err := t.insert(ctx, "insert noun history",
		`INSERT INTO noun_history (noun_id, change_set_id, change_date, diff_name, diff_noun_type, diff_metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		h.NounID, h.ChangeSetID, formatTime(changed), h.DiffName, h.DiffNounType, h.DiffMetadata)
	if err != nil {
		return world.NounHistory{}, err
	}
	h.ID, h.ChangeDate = &id, &changed
	return h, nil
}

func (t *sqlTx) FindNounByID(ctx context.Context, id int64) (*world.Noun, error) {
	return queryOne(ctx, t, "find noun by id", `SELECT `+nounColumns+` WHERE n.id = ?`, scanNoun, id)
}

func (t *sqlTx) FindNounByAll(ctx context.Context) ([]world.Noun, error) {
	return queryAll(ctx, t, "find nouns", `SELECT `+nounColumns+` ORDER BY n.id`, scanNoun)
}

func (t *sqlTx) FindNounByName(ctx context.Context, name string) ([]world.Noun, error) {
	return queryAll(ctx, t, "find nouns by name",
		`SELECT `+nounColumns+` WHERE n.name LIKE ? ESCAPE '\' ORDER BY n.id`, scanNoun, likePattern(name))
}

func (t *sqlTx) FindNounByType(ctx context.Context, nounType string) ([]world.Noun, error) {
	return queryAll(ctx, t, "find nouns by type",
		`SELECT `+nounColumns+` WHERE nt.type_name = ? ORDER BY n.id`, scanNoun, nounType)
}

const nounTypeColumns = `id, last_changed, type_name, metadata FROM noun_type`

func scanNounType(row scanner) (world.NounType, error) {
	var (
		nt      world.NounType
		id      int64
		changed string
	)
	if err := row.Scan(&id, &changed, &nt.TypeName, &nt.Metadata); err != nil {
		return world.NounType{}, err
	}
	ts, err := parseTime(changed)
	if err != nil {
		return world.NounType{}, err
	}
	nt.ID, nt.LastChanged = &id, ts
	return nt, nil
}

func (t *sqlTx) NewNounType(ctx context.Context, nounType world.NounType) (world.NounType, error) {
	id, err := t.insert(ctx, "insert noun type",
		`INSERT INTO noun_type (last_changed, type_name, metadata) VALUES (?, ?, ?)`,
		formatTime(t.now()), nounType.TypeName, nounType.Metadata)
	if err != nil {
		return world.NounType{}, err
	}
	return t.reloadNounType(ctx, id)
}

func (t *sqlTx) UpdateNounType(ctx context.Context, nounType world.NounType) (world.NounType, error) {
	if nounType.ID == nil {
		return world.NounType{}, world.ErrNounTypeHasNoID
	}
	ok, err := t.update(ctx, "update noun type",
		`UPDATE noun_type SET last_changed = ?, type_name = ?, metadata = ? WHERE id = ?`,
		formatTime(t.now()), nounType.TypeName, nounType.Metadata, *nounType.ID)
	if err != nil {
		return world.NounType{}, err
	}
	if !ok {
		return world.NounType{}, world.ErrNounTypeNotFound
	}
	return t.reloadNounType(ctx, *nounType.ID)
}

func (t *sqlTx) reloadNounType(ctx context.Context, id int64) (world.NounType, error) {
	nounType, err := t.FindNounTypeByID(ctx, id)
	if err != nil {
		return world.NounType{}, err
	}
	if nounType == nil {
		return world.NounType{}, world.ErrNounTypeNotFound
	}
	return *nounType, nil
}

func (t *sqlTx) NewNounTypeHistory(ctx context.Context, h world.NounTypeHistory) (world.NounTypeHistory, error) {
	changed := t.now()
	id, err := t.insert(ctx, "insert noun type history",
		`INSERT INTO noun_type_history (noun_type_id, change_set_id, change_date, diff_type_name, diff_metadata)
		 VALUES (?, ?, ?, ?, ?)`,
		h.NounTypeID, h.ChangeSetID, formatTime(changed), h.DiffTypeName, h.DiffMetadata)
	if err != nil {
		return world.NounTypeHistory{}, err
	}
	h.ID, h.ChangeDate = &id, &changed
	return h, nil
}

func (t *sqlTx) FindNounTypeByID(ctx context.Context, id int64) (*world.NounType, error) {
	return queryOne(ctx, t, "find noun type by id", `SELECT `+nounTypeColumns+` WHERE id = ?`, scanNounType, id)
}

func (t *sqlTx) FindNounTypeByAll(ctx context.Context) ([]world.NounType, error) {
	return queryAll(ctx, t, "find noun types", `SELECT `+nounTypeColumns+` ORDER BY type_name`, scanNounType)
}

func (t *sqlTx) FindNounTypeByTypeName(ctx context.Context, typeName string) ([]world.NounType, error) {
	return queryAll(ctx, t, "find noun types by name",
		`SELECT `+nounTypeColumns+` WHERE type_name = ?`, scanNounType, typeName)
}

