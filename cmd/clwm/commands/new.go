package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/display"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/schema"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
)

const (
	definitionTemplate = `# Data type definition. Examples:
#   definition = "Integer"
#   definition = { Array = "Text" }
#   [definition.Custom]
#   street = "Text"
#   number = "Integer"
`
	dataTemplate = `# Attribute data. Examples:
#   data = { Integer = 30 }
#   data = { Array = [{ Text = "a" }, { Text = "b" }] }
#   [data.Custom]
#   street = { Text = "Main St" }
`
)

func newNewCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a record",
		Long: `new: Create a noun, noun type, data type, attribute type or attribute

Values not given as flags are asked for interactively. Definitions and data
come from a TOML file or the editor.`,
	}
	cmd.AddCommand(
		newNewNounCmd(s),
		newNewNounTypeCmd(s),
		newNewDataTypeCmd(s),
		newNewAttributeTypeCmd(s),
		newNewAttributeCmd(s),
	)
	return cmd
}

func newNewNounCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun",
		Short: sym.Noun + " Create a noun",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.stringArg(cmd, "name", "What is the name of this noun?")
			if err != nil {
				return err
			}
			nounType, err := s.stringArg(cmd, "type", "What is the type of this noun?")
			if err != nil {
				return err
			}
			metadata, err := s.stringArg(cmd, "metadata", "What is the metadata of this noun?")
			if err != nil {
				return err
			}

			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				noun, err := e.NewNoun(ctx, name, nounType, metadata)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("created", display.FromNoun(noun))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Noun name")
	cmd.Flags().StringP("type", "t", "", "Noun type name")
	cmd.Flags().StringP("metadata", "m", "", "Free-form metadata")
	return cmd
}

func newNewNounTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noun-type",
		Short: sym.NounType + " Create a noun type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, err := s.stringArg(cmd, "type", "What is the name of this noun type?")
			if err != nil {
				return err
			}
			metadata, err := s.stringArg(cmd, "metadata", "What is the metadata of this noun type?")
			if err != nil {
				return err
			}

			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				nounType, err := e.NewNounType(ctx, typeName, metadata)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("created", display.FromNounType(nounType))
			})
		},
	}
	cmd.Flags().StringP("type", "t", "", "Noun type name")
	cmd.Flags().StringP("metadata", "m", "", "Free-form metadata")
	return cmd
}

func newNewDataTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data-type",
		Short: sym.DataType + " Create a data type",
		Long: sym.DataType + ` new data-type: Create version 1 of a data type

The definition is a TOML document with a single "definition" key. Without
--definition the editor opens on a template.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.stringArg(cmd, "name", "What is the name of this data type?")
			if err != nil {
				return err
			}
			definition, err := s.readDefinition(cmd, definitionTemplate)
			if err != nil {
				return err
			}

			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				dataType, err := e.NewDataType(ctx, name, definition)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("created", display.FromDataType(dataType))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Data type name")
	cmd.Flags().StringP("definition", "d", "", "TOML file holding the definition")
	return cmd
}

func newNewAttributeTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute-type",
		Short: sym.AttributeType + " Create an attribute type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.stringArg(cmd, "name", "What is the name of this attribute type?")
			if err != nil {
				return err
			}
			dataType, err := s.stringArg(cmd, "data-type", "What is the data type of this attribute type?")
			if err != nil {
				return err
			}
			multipleAllowed, err := s.boolArg(cmd, "multiple-allowed", "Can this attribute type have multiple values? (true/false)")
			if err != nil {
				return err
			}
			metadata, err := s.stringArg(cmd, "metadata", "What is the metadata of this attribute type?")
			if err != nil {
				return err
			}

			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attributeType, err := e.NewAttributeType(ctx, name, multipleAllowed, dataType, metadata)
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("created", display.FromAttributeType(attributeType))
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Attribute type name")
	cmd.Flags().StringP("data-type", "d", "", "Data type name")
	cmd.Flags().BoolP("multiple-allowed", "u", false, "Allow several attributes of this type per parent")
	cmd.Flags().StringP("metadata", "m", "", "Free-form metadata")
	return cmd
}

func newNewAttributeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute",
		Short: sym.Attribute + " Create an attribute",
		Long: sym.Attribute + ` new attribute: Attach a value to a noun or another attribute

The data is a TOML document with a single "data" key, validated against the
given version of the attribute type's data type. Without --data the editor
opens on a template.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attributeTypeID, err := s.intArg(cmd, "attribute-type-id", "What is the id of the attribute type?")
			if err != nil {
				return err
			}
			parentNounID, parentAttributeID, err := s.parentArgs(cmd)
			if err != nil {
				return err
			}
			data, err := s.readData(cmd, dataTemplate)
			if err != nil {
				return err
			}
			version, err := s.intArg(cmd, "data-type-version", "What is the version of the data type?")
			if err != nil {
				return err
			}
			metadata, err := s.stringArg(cmd, "metadata", "What is the metadata of this attribute?")
			if err != nil {
				return err
			}

			return s.withEngine(cmd, func(ctx context.Context, e *world.Engine) error {
				attribute, err := e.NewAttribute(ctx, world.Attribute{
					AttributeTypeID:   attributeTypeID,
					ParentNounID:      parentNounID,
					ParentAttributeID: parentAttributeID,
					Data:              data,
					DataTypeVersion:   version,
					Metadata:          metadata,
				})
				if err != nil {
					return err
				}
				return s.printer(cmd).Success("created", display.FromAttribute(attribute))
			})
		},
	}
	cmd.Flags().Int64P("parent-noun-id", "o", 0, "Parent noun id")
	cmd.Flags().Int64P("parent-attribute-id", "t", 0, "Parent attribute id")
	cmd.Flags().Int64P("attribute-type-id", "a", 0, "Attribute type id")
	cmd.Flags().StringP("data", "d", "", "TOML file holding the data")
	cmd.Flags().Int64P("data-type-version", "V", 0, "Data type version the data is validated against")
	cmd.Flags().StringP("metadata", "m", "", "Free-form metadata")
	return cmd
}

// parentArgs reads the parent ids from flags, or asks which kind of parent
// the attribute has when neither flag is given.
func (s *session) parentArgs(cmd *cobra.Command) (noun, attribute *int64, err error) {
	if noun, err = optionalInt(cmd, "parent-noun-id"); err != nil {
		return nil, nil, err
	}
	if attribute, err = optionalInt(cmd, "parent-attribute-id"); err != nil {
		return nil, nil, err
	}
	if noun != nil || attribute != nil {
		return noun, attribute, nil
	}

	kind, err := s.prompt(cmd, "What is the parent of this attribute? (noun/attribute)")
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "noun":
		id, err := s.intArg(cmd, "parent-noun-id", "What is the id of the parent noun?")
		return &id, nil, err
	case "attribute":
		id, err := s.intArg(cmd, "parent-attribute-id", "What is the id of the parent attribute?")
		return nil, &id, err
	default:
		return nil, nil, errors.Newf("invalid parent kind %q (expected noun or attribute)", kind)
	}
}

// readDefinition loads --definition or edits template, then decodes it.
func (s *session) readDefinition(cmd *cobra.Command, template string) (schema.Descriptor, error) {
	path, _ := cmd.Flags().GetString("definition")
	doc, err := s.editor(cmd).Source(cmd.Context(), path, template)
	if err != nil {
		return schema.Descriptor{}, err
	}
	return schema.DecodeDescriptorTOML(doc)
}

// readData loads --data or edits template, then decodes it.
func (s *session) readData(cmd *cobra.Command, template string) (schema.Value, error) {
	path, _ := cmd.Flags().GetString("data")
	doc, err := s.editor(cmd).Source(cmd.Context(), path, template)
	if err != nil {
		return schema.Value{}, err
	}
	return schema.DecodeValueTOML(doc)
}
