package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/display"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
)

func newFindCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "List records",
		Long: `find: List records, optionally filtered

Filters are flags; without any every record of the kind is listed.`,
	}
	cmd.AddCommand(
		newFindNounCmd(s),
		newFindNounTypeCmd(s),
		newFindDataTypeCmd(s),
		newFindAttributeTypeCmd(s),
		newFindAttributeCmd(s),
	)
	return cmd
}

func newFindNounCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun",
		Short: sym.Noun + " List nouns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter world.NounFilter
			filter.Name, _ = cmd.Flags().GetString("name")
			filter.NounType, _ = cmd.Flags().GetString("type")
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				nouns, err := e.FindNouns(ctx, filter)
				if err != nil {
					return err
				}
				return s.printer(cmd).Many("noun", display.Map(nouns, display.FromNoun))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Only nouns whose name contains this text")
	cmd.Flags().StringP("type", "t", "", "Only nouns of this type")
	return cmd
}

func newFindNounTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun-type",
		Short: sym.NounType + " List noun types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, _ := cmd.Flags().GetString("type")
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				nounTypes, err := e.FindNounTypes(ctx, typeName)
				if err != nil {
					return err
				}
				return s.printer(cmd).Many("noun-type", display.Map(nounTypes, display.FromNounType))
			})
		},
	}
	cmd.Flags().StringP("type", "t", "", "Only noun types whose name contains this text")
	return cmd
}

func newFindDataTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data-type",
		Short: sym.DataType + " List data types",
		Long: sym.DataType + ` find data-type: List data types

Without --name the latest version of every data type is listed; with it every
version of that data type. --all lists every version of every data type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			all, _ := cmd.Flags().GetBool("all")
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				var (
					dataTypes []world.DataType
					err       error
				)
				switch {
				case name != "":
					dataTypes, err = e.FindDataTypeVersions(ctx, name)
				case all:
					dataTypes, err = e.FindAllDataTypeVersions(ctx)
				default:
					dataTypes, err = e.FindLatestDataTypes(ctx)
				}
				if err != nil {
					return err
				}
				return s.printer(cmd).Many("data-type", display.Map(dataTypes, display.FromDataType))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "List every version of this data type")
	cmd.Flags().BoolP("all", "A", false, "List every version of every data type")
	return cmd
}

func newFindAttributeTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute-type",
		Short: sym.AttributeType + " List attribute types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter world.AttributeTypeFilter
			filter.Name, _ = cmd.Flags().GetString("name")
			filter.DataType, _ = cmd.Flags().GetString("data-type")
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attributeTypes, err := e.FindAttributeTypes(ctx, filter)
				if err != nil {
					return err
				}
				return s.printer(cmd).Many("attribute-type", display.Map(attributeTypes, display.FromAttributeType))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Only the attribute type with this name")
	cmd.Flags().StringP("data-type", "d", "", "Only attribute types using this data type")
	return cmd
}

func newFindAttributeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute",
		Short: sym.Attribute + " List attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				filter world.AttributeFilter
				err    error
			)
			if filter.ParentNounID, err = optionalInt(cmd, "parent-noun-id"); err != nil {
				return err
			}
			if filter.ParentAttributeID, err = optionalInt(cmd, "parent-attribute-id"); err != nil {
				return err
			}
			if filter.AttributeTypeID, err = optionalInt(cmd, "attribute-type-id"); err != nil {
				return err
			}
			if filter.DataTypeVersion, err = optionalInt(cmd, "data-type-version"); err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attributes, err := e.FindAttributes(ctx, filter)
				if err != nil {
					return err
				}
				return s.printer(cmd).Many("attribute", display.Map(attributes, display.FromAttribute))
			})
		},
	}
	cmd.Flags().Int64P("parent-noun-id", "o", 0, "Only attributes of this noun")
	cmd.Flags().Int64P("parent-attribute-id", "t", 0, "Only children of this attribute")
	cmd.Flags().Int64P("attribute-type-id", "a", 0, "Only attributes of this type")
	cmd.Flags().Int64P("data-type-version", "V", 0, "Only attributes validated against this version")
	return cmd
}
