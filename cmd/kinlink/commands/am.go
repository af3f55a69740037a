package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/am"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage kinlink configuration",
	Long: sym.AM + ` am - Manage kinlink configuration ("I am")

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. System config (/etc/kinlink/am.toml)
  3. User config (~/.kinlink/am.toml)
  4. Project config (./am.toml, searched up from the working directory)
  5. Environment variables (KINLINK_* prefix)

Examples:
  kinlink am show                 # Show current configuration
  kinlink am show --format yaml   # Show configuration as YAML
  kinlink am get database.path    # Get one value
  kinlink am where                # Show where each value comes from
  kinlink am init                 # Write the defaults to ~/.kinlink/am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, ingest.root)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value is loaded from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Long: `Write the default configuration as TOML. Without a path the user
config (~/.kinlink/am.toml) is written. An existing file is kept as a
numbered backup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", am.FormatTOML, "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	data, err := am.Marshal(cfg, configFormat)
	if err != nil {
		return err
	}
	if configFormat != am.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "# kinlink configuration")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	v := am.GetViper()
	if !v.IsSet(args[0]) {
		return errors.Newf("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(args[0]))
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	intro := am.GetConfigIntrospection()
	sort.Slice(intro.Settings, func(i, j int) bool {
		return intro.Settings[i].Key < intro.Settings[j].Key
	})

	data := pterm.TableData{{"Key", "Value", "Source", "Path"}}
	for _, s := range intro.Settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no home directory; give a path")
	}
	cfg, err := am.Defaults()
	if err != nil {
		return err
	}
	if err := am.WriteConfig(path, cfg); err != nil {
		return err
	}
	if _, err := os.Stat(path + ".back1"); err == nil {
		pterm.Info.Printf("Previous configuration kept as %s.back1\n", path)
	}
	pterm.Success.Printf("Wrote %s\n", path)
	return nil
}
