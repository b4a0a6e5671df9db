package world

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PopulateNoun loads the full attribute tree of noun into noun.Attributes.
// Siblings are fetched as one batch and their subtrees loaded concurrently over a
// single read transaction.
func (e *Engine) PopulateNoun(ctx context.Context, noun *Noun) error {
	if noun.ID == nil {
		return ErrNounHasNoID
	}
	_, err := read(ctx, e, "populate-noun", func(tx Transaction) (struct{}, error) {
		return struct{}{}, populateNoun(ctx, tx, noun)
	})
	return err
}

// PopulateAttribute loads the full subtree of attribute into attribute.Children.
func (e *Engine) PopulateAttribute(ctx context.Context, attribute *Attribute) error {
	if attribute.ID == nil {
		return ErrAttributeHasNoID
	}
	_, err := read(ctx, e, "populate-attribute", func(tx Transaction) (struct{}, error) {
		return struct{}{}, populateAttribute(ctx, tx, attribute)
	})
	return err
}

// GetNounTree resolves a noun and populates it in the same transaction.
func (e *Engine) GetNounTree(ctx context.Context, id int64) (Noun, error) {
	return read(ctx, e, "get-noun-tree", func(tx Transaction) (Noun, error) {
		noun, err := tx.FindNounByID(ctx, id)
		if err != nil {
			return Noun{}, err
		}
		if noun == nil {
			return Noun{}, ErrNounNotFound
		}
		if err := populateNoun(ctx, tx, noun); err != nil {
			return Noun{}, err
		}
		return *noun, nil
	})
}

func populateNoun(ctx context.Context, tx Transaction, noun *Noun) error {
	children, err := tx.FindAttributeByParentNounID(ctx, *noun.ID)
	if err != nil {
		return err
	}
	if err := populateChildren(ctx, tx, children); err != nil {
		return err
	}
	noun.Attributes = children
	return nil
}

func populateAttribute(ctx context.Context, tx Transaction, attribute *Attribute) error {
	children, err := tx.FindAttributeByParentAttributeID(ctx, *attribute.ID)
	if err != nil {
		return err
	}
	if err := populateChildren(ctx, tx, children); err != nil {
		return err
	}
	attribute.Children = children
	return nil
}

// populateChildren fans out over siblings and joins before returning. The
// transaction serializes the queries itself.
func populateChildren(ctx context.Context, tx Transaction, children []Attribute) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range children {
		child := &children[i]
		g.Go(func() error {
			if child.ID == nil {
				return ErrAttributeHasNoID
			}
			return populateAttribute(gctx, tx, child)
		})
	}
	return g.Wait()
}
