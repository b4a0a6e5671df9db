package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/clwm/am"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/sym"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: sym.AM + " Show clwm configuration",
		Long: sym.AM + ` am: Show clwm configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CLWM_* prefix)
3. Project config (./am.toml, searched upward)
4. User config (~/.clwm/am.toml)
5. Default values

Examples:
  clwm am show                    # Show current configuration
  clwm am show --format json      # Show configuration in JSON format
  clwm am validate                # Validate current configuration`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return showConfig(cmd, format)
		},
	}
	show.Flags().String("format", am.FormatTOML, "Output format: toml, json, yaml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), sym.Success+" Configuration is valid")
			return nil
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}

func showConfig(cmd *cobra.Command, format string) error {
	settings := am.GetViper().AllSettings()
	out := cmd.OutOrStdout()

	switch format {
	case am.FormatJSON:
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))
	case am.FormatYAML:
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# clwm configuration\n%s", data)
	case am.FormatTOML:
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# clwm configuration\n%s", data)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}
