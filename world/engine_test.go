package world_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/clwm/errors"
	clwmtest "github.com/teranos/clwm/internal/testing"
	"github.com/teranos/clwm/internal/util"
	"github.com/teranos/clwm/schema"
	"github.com/teranos/clwm/storage"
	"github.com/teranos/clwm/world"
)

var historyTables = []string{"noun_type_history", "noun_history", "attribute_type_history", "attribute_history"}

type fixture struct {
	engine *world.Engine
	db     *sql.DB
}

func setup(t *testing.T) *fixture {
	t.Helper()
	database := clwmtest.CreateTestDB(t)
	log := zaptest.NewLogger(t).Sugar()

	store := storage.New(database, storage.WithLogger(log))
	require.NoError(t, store.Init(context.Background()))

	return &fixture{
		engine: world.NewEngine(store, world.WithLogger(log), world.WithChangeSource("test")),
		db:     database,
	}
}

// counts snapshots every entity and history table.
func (f *fixture) counts(t *testing.T) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, table := range append([]string{"noun_type", "noun", "data_type", "attribute_type", "attribute"}, historyTables...) {
		out[table] = clwmtest.CountRows(t, f.db, table)
	}
	return out
}

// person creates the Person noun type and the noun Alice.
func (f *fixture) person(t *testing.T) world.Noun {
	t.Helper()
	ctx := context.Background()
	_, err := f.engine.NewNounType(ctx, "Person", "")
	require.NoError(t, err)
	alice, err := f.engine.NewNoun(ctx, "Alice", "Person", "")
	require.NoError(t, err)
	return alice
}

// ageType creates the Age data type (Integer) and the single-valued age attribute type.
func (f *fixture) ageType(t *testing.T, multiple bool) world.AttributeType {
	t.Helper()
	ctx := context.Background()
	_, err := f.engine.NewDataType(ctx, "Age", schema.Integer())
	require.NoError(t, err)
	at, err := f.engine.NewAttributeType(ctx, "age", multiple, "Age", "")
	require.NoError(t, err)
	return at
}


func TestNounScenario(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	nt, err := f.engine.NewNounType(ctx, "Person", "humans")
	require.NoError(t, err)
	require.NotNil(t, nt.ID)

	alice, err := f.engine.NewNoun(ctx, "Alice", "Person", "")
	require.NoError(t, err)
	require.NotNil(t, alice.ID)
	require.NotNil(t, alice.LastChanged)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "Person", alice.NounType)

	before := f.counts(t)
	_, err = f.engine.NewNoun(ctx, "Casper", "Ghost", "")
	assert.True(t, errors.Is(err, world.ErrNounTypeNotFound), "%v", err)
	assert.Equal(t, before, f.counts(t), "failed operation must write nothing")

	_, err = f.engine.NewNounType(ctx, "Person", "")
	assert.True(t, errors.Is(err, world.ErrNounTypeAlreadyExists))
	assert.Contains(t, err.Error(), `"Person"`)
}

func TestNounTypeUpdate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	nt, err := f.engine.NewNounType(ctx, "Person", "")
	require.NoError(t, err)
	_, err = f.engine.NewNounType(ctx, "Place", "")
	require.NoError(t, err)
	alice, err := f.engine.NewNoun(ctx, "Alice", "Person", "")
	require.NoError(t, err)

	t.Run("rename propagates to nouns", func(t *testing.T) {
		nt.TypeName = "Human"
		nt.Metadata = "renamed"
		updated, err := f.engine.UpdateNounType(ctx, nt)
		require.NoError(t, err)
		assert.Equal(t, "Human", updated.TypeName)

		got, err := f.engine.GetNoun(ctx, *alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Human", got.NounType)
	})

	t.Run("rename onto an existing type", func(t *testing.T) {
		nt.TypeName = "Place"
		_, err := f.engine.UpdateNounType(ctx, nt)
		assert.True(t, errors.Is(err, world.ErrNounTypeAlreadyExists))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := f.engine.UpdateNounType(ctx, world.NounType{TypeName: "x"})
		assert.True(t, errors.Is(err, world.ErrNounTypeHasNoID))

		_, err = f.engine.UpdateNounType(ctx, world.NounType{ID: util.Ptr[int64](999), TypeName: "x"})
		assert.True(t, errors.Is(err, world.ErrNounTypeNotFound))

		_, err = f.engine.NewNounType(ctx, "", "")
		assert.True(t, errors.Is(err, world.ErrNameRequired))
	})
}

func TestNounUpdate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.person(t)

	alice.Name = "Alicia"
	alice.Metadata = "prefers Alicia"
	updated, err := f.engine.UpdateNoun(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "prefers Alicia", updated.Metadata)

	var diffName, diffMeta string
	require.NoError(t, f.db.QueryRow(
		`SELECT diff_name, diff_metadata FROM noun_history WHERE noun_id = ? ORDER BY id DESC LIMIT 1`, *alice.ID).
		Scan(&diffName, &diffMeta))
	assert.Contains(t, diffName, "-Alice\n")
	assert.Contains(t, diffName, "+Alicia\n")
	assert.Contains(t, diffMeta, "+prefers Alicia\n")

	alice.NounType = "Ghost"
	_, err = f.engine.UpdateNoun(ctx, alice)
	assert.True(t, errors.Is(err, world.ErrNounTypeNotFound))

	_, err = f.engine.UpdateNoun(ctx, world.Noun{Name: "x", NounType: "Person"})
	assert.True(t, errors.Is(err, world.ErrNounHasNoID))

	_, err = f.engine.UpdateNoun(ctx, world.Noun{ID: util.Ptr[int64](999), Name: "x", NounType: "Person"})
	assert.True(t, errors.Is(err, world.ErrNounNotFound))
}

func TestHistoryPairing(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	step := func(t *testing.T, table string, op func() error) {
		t.Helper()
		before := f.counts(t)
		require.NoError(t, op())
		after := f.counts(t)
		for _, h := range historyTables {
			want := before[h]
			if h == table {
				want++
			}
			assert.Equal(t, want, after[h], "%s after writing %s", h, table)
		}
	}

	var (
		nt    world.NounType
		noun  world.Noun
		at    world.AttributeType
		attr  world.Attribute
		errOp error
	)
	step(t, "noun_type_history", func() error { nt, errOp = f.engine.NewNounType(ctx, "Person", ""); return errOp })
	step(t, "noun_type_history", func() error { nt.Metadata = "m"; _, errOp = f.engine.UpdateNounType(ctx, nt); return errOp })
	step(t, "noun_history", func() error { noun, errOp = f.engine.NewNoun(ctx, "Alice", "Person", ""); return errOp })
	step(t, "noun_history", func() error { noun.Name = "Al"; _, errOp = f.engine.UpdateNoun(ctx, noun); return errOp })
	step(t, "", func() error { _, errOp = f.engine.NewDataType(ctx, "Age", schema.Integer()); return errOp })
	step(t, "attribute_type_history", func() error { at, errOp = f.engine.NewAttributeType(ctx, "age", false, "Age", ""); return errOp })
	step(t, "attribute_type_history", func() error { at.MultipleAllowed = true; _, errOp = f.engine.UpdateAttributeType(ctx, at); return errOp })
	step(t, "attribute_history", func() error {
		attr, errOp = f.engine.NewAttribute(ctx, world.Attribute{
			AttributeTypeID: *at.ID, ParentNounID: noun.ID, Data: schema.IntegerValue(30), DataTypeVersion: 1,
		})
		return errOp
	})
	step(t, "attribute_history", func() error {
		attr.Data = schema.IntegerValue(31)
		_, errOp = f.engine.UpdateAttribute(ctx, attr)
		return errOp
	})

	t.Run("history rows carry their change set", func(t *testing.T) {
		var sources []string
		rows, err := f.db.Query(`SELECT cs.source FROM attribute_history h JOIN change_set cs ON cs.id = h.change_set_id ORDER BY h.id`)
		require.NoError(t, err)
		defer rows.Close()
		for rows.Next() {
			var s string
			require.NoError(t, rows.Scan(&s))
			sources = append(sources, s)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"test:new-attribute", "test:update-attribute"}, sources)
	})

	t.Run("attribute type history diffs multiple_allowed as text", func(t *testing.T) {
		var diff string
		require.NoError(t, f.db.QueryRow(
			`SELECT diff_multiple_allowed FROM attribute_type_history ORDER BY id DESC LIMIT 1`).Scan(&diff))
		assert.Contains(t, diff, "-false\n")
		assert.Contains(t, diff, "+true\n")
	})

	t.Run("attribute history diffs serialized data", func(t *testing.T) {
		var diff, version string
		require.NoError(t, f.db.QueryRow(
			`SELECT diff_data, diff_data_type_version FROM attribute_history ORDER BY id DESC LIMIT 1`).Scan(&diff, &version))
		assert.Contains(t, diff, "-Integer = 30\n")
		assert.Contains(t, diff, "+Integer = 31\n")
		assert.Empty(t, version, "unchanged version has an empty patch")
	})
}

func TestDataTypeVersionMonotonicity(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.engine.NewDataType(ctx, "Point", schema.Custom(map[string]schema.Descriptor{"x": schema.Float()}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), *created.Version)
	assert.False(t, created.SystemDefined)

	const updates = 4
	for i := 0; i < updates; i++ {
		updated, err := f.engine.UpdateDataType(ctx, "Point", schema.Custom(map[string]schema.Descriptor{
			"x": schema.Float(),
			"y": schema.Float(),
		}))
		require.NoError(t, err)
		assert.Equal(t, int64(i+2), *updated.Version)
	}

	latest, err := f.engine.GetLatestDataType(ctx, "Point")
	require.NoError(t, err)
	assert.Equal(t, int64(updates+1), *latest.Version)

	for v := int64(1); v <= updates+1; v++ {
		got, err := f.engine.GetDataTypeVersion(ctx, "Point", v)
		require.NoError(t, err)
		assert.Equal(t, v, *got.Version)
	}
	first, err := f.engine.GetDataTypeVersion(ctx, "Point", 1)
	require.NoError(t, err)
	assert.Len(t, first.Definition.Fields, 1, "old versions are never rewritten")

	versions, err := f.engine.FindDataTypeVersions(ctx, "Point")
	require.NoError(t, err)
	assert.Len(t, versions, updates+1)

	all, err := f.engine.FindAllDataTypeVersions(ctx)
	require.NoError(t, err)
	points := 0
	for _, dt := range all {
		if dt.Name == "Point" {
			points++
		}
	}
	assert.Equal(t, updates+1, points)
	latestAll, err := f.engine.FindLatestDataTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(latestAll)+updates)

	_, err = f.engine.GetDataTypeVersion(ctx, "Point", 99)
	assert.True(t, errors.Is(err, world.ErrDataTypeVersionNotFound))
	_, err = f.engine.GetDataTypeVersion(ctx, "Nope", 1)
	assert.True(t, errors.Is(err, world.ErrDataTypeNotFound))
}

func TestDataTypeErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.engine.NewDataType(ctx, "Age", schema.Integer())
	require.NoError(t, err)

	_, err = f.engine.NewDataType(ctx, "Age", schema.Float())
	assert.True(t, errors.Is(err, world.ErrDataTypeAlreadyExists))

	_, err = f.engine.UpdateDataType(ctx, "Height", schema.Float())
	assert.True(t, errors.Is(err, world.ErrDataTypeNotFound))

	_, err = f.engine.UpdateDataType(ctx, "Integer", schema.Float())
	assert.True(t, errors.Is(err, world.ErrDataTypeSystemDefined))

	_, err = f.engine.NewDataType(ctx, "Broken", schema.Descriptor{Kind: schema.KindArray})
	assert.True(t, errors.Is(err, world.ErrInvalidDefinition))

	_, err = f.engine.NewDataType(ctx, "", schema.Text())
	assert.True(t, errors.Is(err, world.ErrNameRequired))

	latest, err := f.engine.FindLatestDataTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 7)
}

func TestAttributeTypeRules(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	at := f.ageType(t, false)

	_, err := f.engine.NewAttributeType(ctx, "age", true, "Age", "")
	assert.True(t, errors.Is(err, world.ErrAttributeTypeAlreadyExists))

	_, err = f.engine.NewAttributeType(ctx, "height", false, "Height", "")
	assert.True(t, errors.Is(err, world.ErrDataTypeNotFound))

	builtin, err := f.engine.NewAttributeType(ctx, "nickname", true, "Text", "")
	require.NoError(t, err)

	t.Run("data type is fixed at creation", func(t *testing.T) {
		at.DataType = "Text"
		at.Metadata = "years"
		updated, err := f.engine.UpdateAttributeType(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, "Age", updated.DataType)
		assert.Equal(t, "years", updated.Metadata)
	})

	t.Run("rename onto an existing type", func(t *testing.T) {
		builtin.AttributeName = "age"
		_, err := f.engine.UpdateAttributeType(ctx, builtin)
		assert.True(t, errors.Is(err, world.ErrAttributeTypeAlreadyExists))
	})

	t.Run("lookups", func(t *testing.T) {
		byName, err := f.engine.GetAttributeTypeByName(ctx, "age")
		require.NoError(t, err)
		assert.Equal(t, *at.ID, *byName.ID)

		byData, err := f.engine.FindAttributeTypes(ctx, world.AttributeTypeFilter{DataType: "Text"})
		require.NoError(t, err)
		require.Len(t, byData, 1)
		assert.Equal(t, "nickname", byData[0].AttributeName)

		none, err := f.engine.FindAttributeTypes(ctx, world.AttributeTypeFilter{Name: "age", DataType: "Text"})
		require.NoError(t, err)
		assert.Empty(t, none)

		_, err = f.engine.GetAttributeType(ctx, 999)
		assert.True(t, errors.Is(err, world.ErrAttributeTypeNotFound))
	})

	t.Run("update errors", func(t *testing.T) {
		_, err := f.engine.UpdateAttributeType(ctx, world.AttributeType{AttributeName: "x"})
		assert.True(t, errors.Is(err, world.ErrAttributeTypeHasNoID))

		_, err = f.engine.UpdateAttributeType(ctx, world.AttributeType{ID: util.Ptr[int64](999), AttributeName: "x"})
		assert.True(t, errors.Is(err, world.ErrAttributeTypeNotFound))
	})
}
