package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/display"
	"github.com/teranos/clwm/schema"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
)

func newUpdateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change a record",
		Long: `update: Change a noun, noun type, data type, attribute type or attribute

Only the fields given as flags change. Each update records a history row with
the diff of every field.`,
	}
	cmd.AddCommand(
		newUpdateNounCmd(s),
		newUpdateNounTypeCmd(s),
		newUpdateDataTypeCmd(s),
		newUpdateAttributeTypeCmd(s),
		newUpdateAttributeCmd(s),
	)
	return cmd
}

// setString copies a changed string flag into dst.
func setString(cmd *cobra.Command, flag string, dst *string) error {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func newUpdateNounCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun <id>",
		Short: sym.Noun + " Update a noun",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				noun, err := e.GetNoun(ctx, id)
				if err != nil {
					return err
				}
				for flag, dst := range map[string]*string{"name": &noun.Name, "type": &noun.NounType, "metadata": &noun.Metadata} {
					if err := setString(cmd, flag, dst); err != nil {
						return err
					}
				}
				updated, err := e.UpdateNoun(ctx, noun)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("updated", display.FromNoun(updated))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "New name")
	cmd.Flags().StringP("type", "t", "", "New noun type name")
	cmd.Flags().StringP("metadata", "m", "", "New metadata")
	return cmd
}

func newUpdateNounTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun-type <id>",
		Short: sym.NounType + " Update a noun type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				nounType, err := e.GetNounType(ctx, id)
				if err != nil {
					return err
				}
				if err := setString(cmd, "type", &nounType.TypeName); err != nil {
					return err
				}
				if err := setString(cmd, "metadata", &nounType.Metadata); err != nil {
					return err
				}
				updated, err := e.UpdateNounType(ctx, nounType)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("updated", display.FromNounType(updated))
			})
		},
	}
	cmd.Flags().StringP("type", "t", "", "New type name")
	cmd.Flags().StringP("metadata", "m", "", "New metadata")
	return cmd
}

func newUpdateDataTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data-type <name>",
		Short: sym.DataType + " Add the next version of a data type",
		Long: sym.DataType + ` update data-type: Add the next version of a data type

Without --definition the editor opens on the latest definition. Attributes keep
the version they were validated against.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				latest, err := e.GetLatestDataType(ctx, name)
				if err != nil {
					return err
				}
				template, err := schema.EncodeDescriptorTOML(latest.Definition)
				if err != nil {
					return err
				}
				definition, err := s.readDefinition(cmd, template)
				if err != nil {
					return err
				}
				updated, err := e.UpdateDataType(ctx, name, definition)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("updated", display.FromDataType(updated))
			})
		},
	}
	cmd.Flags().StringP("definition", "d", "", "TOML file holding the new definition")
	return cmd
}

func newUpdateAttributeTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute-type <id>",
		Short: sym.AttributeType + " Update an attribute type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attributeType, err := e.GetAttributeType(ctx, id)
				if err != nil {
					return err
				}
				if err := setString(cmd, "name", &attributeType.AttributeName); err != nil {
					return err
				}
				if err := setString(cmd, "metadata", &attributeType.Metadata); err != nil {
					return err
				}
				if cmd.Flags().Changed("multiple-allowed") {
					if attributeType.MultipleAllowed, err = cmd.Flags().GetBool("multiple-allowed"); err != nil {
						return err
					}
				}
				updated, err := e.UpdateAttributeType(ctx, attributeType)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("updated", display.FromAttributeType(updated))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "New attribute name")
	cmd.Flags().BoolP("multiple-allowed", "u", false, "Allow several attributes of this type per parent")
	cmd.Flags().StringP("metadata", "m", "", "New metadata")
	return cmd
}

func newUpdateAttributeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute <id>",
		Short: sym.Attribute + " Update an attribute",
		Long: sym.Attribute + ` update attribute: Change an attribute's data, version or metadata

The attribute type and parent never change. --edit opens the editor on the
current data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attribute, err := e.GetAttribute(ctx, id)
				if err != nil {
					return err
				}

				edit, _ := cmd.Flags().GetBool("edit")
				if cmd.Flags().Changed("data") || edit {
					current, err := schema.EncodeValueTOML(attribute.Data)
					if err != nil {
						return err
					}
					if attribute.Data, err = s.readData(cmd, current); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("data-type-version") {
					if attribute.DataTypeVersion, err = cmd.Flags().GetInt64("data-type-version"); err != nil {
						return err
					}
				}
				if err := setString(cmd, "metadata", &attribute.Metadata); err != nil {
					return err
				}

				updated, err := e.UpdateAttribute(ctx, attribute)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("updated", display.FromAttribute(updated))
			})
		},
	}
	cmd.Flags().StringP("data", "d", "", "TOML file holding the new data")
	cmd.Flags().BoolP("edit", "e", false, "Edit the current data")
	cmd.Flags().Int64P("data-type-version", "V", 0, "Data type version to validate against")
	cmd.Flags().StringP("metadata", "m", "", "New metadata")
	return cmd
}
