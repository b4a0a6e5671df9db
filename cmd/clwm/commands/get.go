package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/display"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
)

func newGetCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one record",
		Long: `get: Show one record

Nouns and attributes are shown with their full attribute tree.`,
	}
	cmd.AddCommand(
		getByID(s, "noun", "Show a noun and its attribute tree", func(ctx context.Context, e *world.Engine, id int64) (display.Record, error) {
			noun, err := e.GetNounTree(ctx, id)
			return display.FromNoun(noun), err
		}),
		getByID(s, "noun-type", "Show a noun type", func(ctx context.Context, e *world.Engine, id int64) (display.Record, error) {
			nounType, err := e.GetNounType(ctx, id)
			return display.FromNounType(nounType), err
		}),
		newGetDataTypeCmd(s),
		getByID(s, "attribute-type", "Show an attribute type", func(ctx context.Context, e *world.Engine, id int64) (display.Record, error) {
			attributeType, err := e.GetAttributeType(ctx, id)
			return display.FromAttributeType(attributeType), err
		}),
		getByID(s, "attribute", "Show an attribute and its children", func(ctx context.Context, e *world.Engine, id int64) (display.Record, error) {
			attribute, err := e.GetAttribute(ctx, id)
			if err != nil {
				return display.Record{}, err
			}
			if err := e.PopulateAttribute(ctx, &attribute); err != nil {
				return display.Record{}, err
			}
			return display.FromAttribute(attribute), nil
		}),
	)
	return cmd
}

// getByID builds a "get <kind> <id>" command around fetch.
func getByID(s *session, kind, short string, fetch func(context.Context, *world.Engine, int64) (display.Record, error)) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <id>",
		Short: sym.ForCommand(kind) + " " + short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				record, err := fetch(ctx, e, id)
				if err != nil {
					return err
				}
				return s.printer(cmd).One(record)
			})
		},
	}
}

func newGetDataTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data-type <name>",
		Short: sym.DataType + " Show a data type",
		Long: sym.DataType + ` get data-type: Show the latest version of a data type

--version selects an older version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := optionalInt(cmd, "version")
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				var dataType world.DataType
				if version != nil {
					dataType, err = e.GetDataTypeVersion(ctx, args[0], *version)
				} else {
					dataType, err = e.GetLatestDataType(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return s.printer(cmd).One(display.FromDataType(dataType))
			})
		},
	}
	cmd.Flags().Int64P("version", "V", 0, "Data type version")
	return cmd
}
