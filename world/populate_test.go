package world_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/schema"
	"github.com/teranos/clwm/world"
)

func TestPopulateTree(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.person(t)
	node, err := f.engine.NewAttributeType(ctx, "node", true, "Integer", "")
	require.NoError(t, err)

	add := func(parentNoun, parentAttr *int64, n int64) world.Attribute {
		t.Helper()
		a, err := f.engine.NewAttribute(ctx, world.Attribute{
			AttributeTypeID:   *node.ID,
			ParentNounID:      parentNoun,
			ParentAttributeID: parentAttr,
			Data:              schema.IntegerValue(n),
			DataTypeVersion:   1,
		})
		require.NoError(t, err)
		return a
	}

	// alice
	// ├── 1
	// │   ├── 11
	// │   │   └── 111
	// │   └── 12
	// └── 2
	one := add(alice.ID, nil, 1)
	two := add(alice.ID, nil, 2)
	eleven := add(nil, one.ID, 11)
	add(nil, one.ID, 12)
	add(nil, eleven.ID, 111)

	t.Run("noun", func(t *testing.T) {
		root := alice
		require.NoError(t, f.engine.PopulateNoun(ctx, &root))
		require.Len(t, root.Attributes, 2)

		first := root.Attributes[0]
		assert.Equal(t, *one.ID, *first.ID)
		require.Len(t, first.Children, 2)
		assert.True(t, schema.IntegerValue(11).Equal(first.Children[0].Data))
		require.Len(t, first.Children[0].Children, 1)
		assert.True(t, schema.IntegerValue(111).Equal(first.Children[0].Children[0].Data))
		assert.Empty(t, first.Children[0].Children[0].Children)
		assert.Empty(t, first.Children[1].Children)

		assert.Equal(t, *two.ID, *root.Attributes[1].ID)
		assert.Empty(t, root.Attributes[1].Children)
	})

	t.Run("attribute", func(t *testing.T) {
		sub := eleven
		require.NoError(t, f.engine.PopulateAttribute(ctx, &sub))
		require.Len(t, sub.Children, 1)
		assert.True(t, schema.IntegerValue(111).Equal(sub.Children[0].Data))
	})

	t.Run("noun tree", func(t *testing.T) {
		tree, err := f.engine.GetNounTree(ctx, *alice.ID)
		require.NoError(t, err)
		assert.Len(t, tree.Attributes, 2)

		_, err = f.engine.GetNounTree(ctx, 999)
		assert.True(t, errors.Is(err, world.ErrNounNotFound))
	})

	t.Run("needs an id", func(t *testing.T) {
		assert.True(t, errors.Is(f.engine.PopulateNoun(ctx, &world.Noun{}), world.ErrNounHasNoID))
		assert.True(t, errors.Is(f.engine.PopulateAttribute(ctx, &world.Attribute{}), world.ErrAttributeHasNoID))
	})
}

func TestPopulateWideTree(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.person(t)
	node, err := f.engine.NewAttributeType(ctx, "node", true, "Integer", "")
	require.NoError(t, err)

	const width = 20
	for i := 0; i < width; i++ {
		parent, err := f.engine.NewAttribute(ctx, world.Attribute{
			AttributeTypeID: *node.ID, ParentNounID: alice.ID, Data: schema.IntegerValue(int64(i)), DataTypeVersion: 1,
		})
		require.NoError(t, err)
		_, err = f.engine.NewAttribute(ctx, world.Attribute{
			AttributeTypeID: *node.ID, ParentAttributeID: parent.ID, Data: schema.IntegerValue(int64(i)), DataTypeVersion: 1,
		})
		require.NoError(t, err)
	}

	root := alice
	require.NoError(t, f.engine.PopulateNoun(ctx, &root))
	require.Len(t, root.Attributes, width)
	for _, child := range root.Attributes {
		require.Len(t, child.Children, 1)
		assert.True(t, child.Data.Equal(child.Children[0].Data))
	}
}
