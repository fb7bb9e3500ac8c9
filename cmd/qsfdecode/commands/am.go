package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qsfdecode/am"
	"github.com/teranos/qsfdecode/display"
	"github.com/teranos/qsfdecode/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage qsfdecode configuration",
	Long: `am - Manage qsfdecode configuration ("I am")

Display and manage output defaults, variable name substitutions and Qualtrics
credentials.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (QSF_* prefix, legacy Q_API_TOKEN / Q_DATA_CENTER, .env)
3. Project config (./am.toml, searched up from the working directory)
4. User config (~/.qsfdecode/am.toml)
5. System config (/etc/qsfdecode/am.toml)
6. Default values

Examples:
  qsfdecode am show                          # Show current configuration
  qsfdecode am show --format json            # Show configuration in JSON format
  qsfdecode am get qualtrics.data_center     # Get specific config value
  qsfdecode am validate                      # Validate current configuration
  qsfdecode am init                          # Write a starter ~/.qsfdecode/am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration from all sources. The API token is masked.",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.include_declarations, qualtrics.data_center)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the configuration, and with --credentials check that Qualtrics can be addressed",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long:  "Show the configuration cascade and the source of every effective setting.",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter user configuration",
	Long: `Write ~/.qsfdecode/am.toml with the default settings. Credentials present in
Q_API_TOKEN and Q_DATA_CENTER are copied in. An existing file is kept unless
--force is given, in which case it is rotated into .back1..3 first.`,
	RunE: runAmInit,
}

var (
	configFormat      string
	validateCreds     bool
	initForce         bool
	secretSettingKeys = map[string]bool{"qualtrics.api_token": true}
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amValidateCmd.Flags().BoolVar(&validateCreds, "credentials", false, "Also require Qualtrics credentials")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing user configuration")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	return renderConfig(cmd.OutOrStdout(), maskedConfig(cfg), configFormat)
}

// maskedConfig returns a copy of cfg safe to print
func maskedConfig(cfg *am.Config) *am.Config {
	shown := *cfg
	shown.Qualtrics.APIToken = am.MaskSecret(cfg.Qualtrics.APIToken)
	return &shown
}

func renderConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		return display.OutputJSON(w, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# qsfdecode configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# qsfdecode configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.Wrapf(errors.ErrNotFound, "configuration key %q", key)
	}

	value := am.Get(key)
	if s, ok := value.(string); ok && secretSettingKeys[key] {
		value = am.MaskSecret(s)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	if validateCreds {
		if err := cfg.Qualtrics.ValidateCredentials(); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [SYSTEM]   %s\n", am.SystemConfigPath)
	fmt.Fprintf(out, "  3. [USER]     %s\n", am.UserConfigPath())
	fmt.Fprintf(out, "  4. [PROJECT]  ./%s (searches up directories)\n", am.ConfigFileName)
	fmt.Fprintln(out, "  5. [ENV]      QSF_* environment variables, Q_API_TOKEN, Q_DATA_CENTER")
	fmt.Fprintln(out)

	type group struct {
		path     string
		settings []am.SettingInfo
	}
	bySource := make(map[am.ConfigSource]map[string]*group)
	for _, s := range intro.Settings {
		if bySource[s.Source] == nil {
			bySource[s.Source] = make(map[string]*group)
		}
		g, ok := bySource[s.Source][s.SourcePath]
		if !ok {
			g = &group{path: s.SourcePath}
			bySource[s.Source][s.SourcePath] = g
		}
		g.settings = append(g.settings, s)
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	} {
		paths := make([]string, 0, len(bySource[source]))
		for p := range bySource[source] {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			g := bySource[source][p]
			fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(g.settings), g.path)
			for _, s := range g.settings {
				valueStr := fmt.Sprintf("%v", s.Value)
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				fmt.Fprintf(out, "  %s = %s\n", s.Key, valueStr)
			}
		}
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.UserConfigPath()
	if path == "" {
		return errors.New("cannot determine the home directory")
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"Use --force to overwrite it (the current file is kept as .back1)")
	}

	if err := am.Persist(am.Starter(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
